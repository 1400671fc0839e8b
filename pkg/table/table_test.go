// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

func sampleTable(t *testing.T) Table {
	t.Helper()
	tbl, err := New(
		NewNumeric("year", []float64{1972, 1972, 2018}, nil),
		NewNumeric("age", []float64{23, 0, 65}, []bool{false, true, false}),
		NewText("region", []string{"ne", "sw", "mw"}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr bool
	}{
		{"empty", nil, false},
		{"single", []Column{NewNumeric("a", []float64{1}, nil)}, false},
		{"duplicate", []Column{NewNumeric("a", []float64{1}, nil), NewText("a", []string{"x"}, nil)}, true},
		{"length mismatch", []Column{NewNumeric("a", []float64{1}, nil), NewText("b", []string{"x", "y"}, nil)}, true},
		{"nil column", []Column{nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cols...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && gsserrors.CodeOf(err) != gsserrors.ErrCodeInvalidRequest {
				t.Errorf("CodeOf() = %s, want %s", gsserrors.CodeOf(err), gsserrors.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, 3, tbl.NRow())
	assert.Equal(t, 3, tbl.NCol())
	assert.Equal(t, []string{"year", "age", "region"}, tbl.Names())
	assert.True(t, tbl.Has("age"))
	assert.False(t, tbl.Has("sex"))

	_, err := tbl.Column("sex")
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))
}

func TestWith(t *testing.T) {
	tbl := sampleTable(t)

	replaced, err := tbl.With(NewText("age", []string{"a", "b", "c"}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "age", "region"}, replaced.Names(), "replacement keeps position")
	c, _ := replaced.Column("age")
	assert.Equal(t, KindText, c.Kind())

	orig, _ := tbl.Column("age")
	assert.Equal(t, KindNumeric, orig.Kind(), "source table unchanged")

	added, err := tbl.With(NewNumeric("wt", []float64{1, 1, 1}, nil))
	require.NoError(t, err)
	assert.Equal(t, "wt", added.Names()[3])

	_, err = tbl.With(NewNumeric("wt", []float64{1}, nil))
	assert.Error(t, err)
}

func TestSelectDrop(t *testing.T) {
	tbl := sampleTable(t)

	sel, err := tbl.Select("region", "year")
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "year"}, sel.Names())

	_, err = tbl.Select("nope")
	assert.Error(t, err)

	dropped := tbl.Drop("age", "unknown")
	assert.Equal(t, []string{"year", "region"}, dropped.Names())
	assert.Equal(t, 3, dropped.NRow())
}

func TestFilterDropNA(t *testing.T) {
	tbl := sampleTable(t)

	clean, err := tbl.DropNA("age")
	require.NoError(t, err)
	assert.Equal(t, 2, clean.NRow())
	region, _ := clean.Column("region")
	assert.Equal(t, "mw", region.String(1))

	_, err = tbl.DropNA("missing")
	assert.Error(t, err)

	early := tbl.Filter(func(row int) bool {
		c, _ := tbl.Column("year")
		return c.Value(row).(float64) < 2000
	})
	assert.Equal(t, 2, early.NRow())
}

func TestRow(t *testing.T) {
	tbl := sampleTable(t)
	row := tbl.Row(1)
	assert.Equal(t, float64(1972), row["year"])
	assert.Nil(t, row["age"])
	assert.Equal(t, "sw", row["region"])
}

func TestZeroTable(t *testing.T) {
	var tbl Table
	assert.Equal(t, 0, tbl.NRow())
	assert.False(t, tbl.Has("x"))
	out, err := tbl.With(NewNumeric("x", []float64{1, 2}, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, out.NRow())
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(NewNumeric("a", []float64{1}, nil), NewNumeric("a", []float64{1}, nil))
	})
}
