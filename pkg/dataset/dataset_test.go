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


package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

const allCSV = `year,id,age,sex,fefam,wtssall,extra
2018,1,25,male,agree,0.44,x
2018,2,NA,female,,1.33,y
2021,3,61,female,disagree,0.88,z
`

const panelCSV = `firstid,wave,id,fefam
1,1,10,agree
1,2,4,agree
2,1,11,disagree
2,3,7,agree
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	assert.Len(t, reg, 7)
	assert.Equal(t, All, reg[0].Name)

	reg[0].Name = "changed"
	assert.Equal(t, All, Registry()[0].Name)

	assert.Equal(t, []string{Panel06, Panel08, Panel10}, Names(KindPanel))
	assert.Equal(t, []string{Dict, PanelDoc}, Names(KindCodebook))
	assert.Len(t, Names(), 7)

	info, err := Lookup(Sub)
	require.NoError(t, err)
	assert.Equal(t, All, info.DerivedFrom)

	_, err = Lookup("gss_1972")
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeNotFound, gsserrors.CodeOf(err))

	assert.Len(t, reg.Rows(), 7)
	assert.Len(t, reg.Header(), len(reg.Rows()[0]))
}

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader(allCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NRow())
	assert.Equal(t, []string{"year", "id", "age", "sex", "fefam", "wtssall", "extra"}, tbl.Names())

	age, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, age.Kind())
	assert.True(t, age.IsNA(1))
	assert.Equal(t, 61.0, age.Value(2))

	fefam, err := tbl.Column("fefam")
	require.NoError(t, err)
	assert.Equal(t, table.KindText, fefam.Kind())
	assert.True(t, fefam.IsNA(1))
	assert.Equal(t, "disagree", fefam.String(2))
}

func TestReadCSVEdgeCases(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NCol())

	tbl, err = ReadCSV(context.Background(), strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NCol())
	assert.Equal(t, 0, tbl.NRow())

	_, err = ReadCSV(context.Background(), strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))

	_, err = ReadCSV(context.Background(), strings.NewReader("a,a\n1,2\n"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadCSV(ctx, strings.NewReader(allCSV))
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeTimeout, gsserrors.CodeOf(err))
}

func TestValidatePanel(t *testing.T) {
	num := func(name string, v ...float64) *table.Numeric { return table.NewNumeric(name, v, nil) }

	tests := []struct {
		name    string
		cols    []table.Column
		wantErr string
	}{
		{
			name: "valid",
			cols: []table.Column{num("firstid", 1, 1, 2), num("wave", 1, 2, 1), num("id", 5, 5, 6)},
		},
		{
			name:    "missing firstid column",
			cols:    []table.Column{num("wave", 1)},
			wantErr: "no respondent id",
		},
		{
			name:    "missing wave column",
			cols:    []table.Column{num("firstid", 1)},
			wantErr: "no wave",
		},
		{
			name:    "missing firstid",
			cols:    []table.Column{table.NewNumeric("firstid", []float64{1, 2}, []bool{false, true}), num("wave", 1, 1)},
			wantErr: "missing firstid",
		},
		{
			name:    "wave out of range",
			cols:    []table.Column{num("firstid", 1, 2), num("wave", 1, 4)},
			wantErr: "outside 1..3",
		},
		{
			name:    "fractional wave",
			cols:    []table.Column{num("firstid", 1), num("wave", 1.5)},
			wantErr: "outside 1..3",
		},
		{
			name:    "duplicate pair",
			cols:    []table.Column{num("firstid", 1, 2, 1), num("wave", 2, 2, 2)},
			wantErr: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanel(table.MustNew(tt.cols...))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))
		})
	}
}

func TestLoaderCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, All+".csv", allCSV)
	l := NewLoader(dir)
	assert.Equal(t, dir, l.Dir())
	assert.Empty(t, l.Loaded())

	first, err := l.Load(t.Context(), All)
	require.NoError(t, err)
	assert.Equal(t, 3, first.NRow())

	// the file is not read again
	require.NoError(t, os.Remove(filepath.Join(dir, All+".csv")))
	second, err := l.Load(t.Context(), All)
	require.NoError(t, err)
	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, []string{All}, l.Loaded())
}

func TestLoaderDerivesSub(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, All+".csv", allCSV)

	l := NewLoader(dir)
	sub, err := l.Load(t.Context(), Sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "id", "age", "sex", "fefam", "wtssall"}, sub.Names())
	assert.Equal(t, []string{All, Sub}, l.Loaded())

	l = NewLoader(dir, WithSubColumns("age", "year"))
	sub, err = l.Load(t.Context(), Sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "year"}, sub.Names())
}

func TestLoaderPrefersSubFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, Sub+".csv", "year,age\n2018,30\n")

	sub, err := NewLoader(dir).Load(t.Context(), Sub)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.NRow())
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, Panel08+".csv", "firstid,wave\n1,1\n1,1\n")
	l := NewLoader(dir)

	tests := []struct {
		name string
		ds   string
		code gsserrors.ErrorCode
	}{
		{"unknown name", "gss_1972", gsserrors.ErrCodeNotFound},
		{"codebook name", Dict, gsserrors.ErrCodeInvalidRequest},
		{"no file", Panel06, gsserrors.ErrCodeNotFound},
		{"no parent file", Sub, gsserrors.ErrCodeNotFound},
		{"invalid panel", Panel08, gsserrors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(t.Context(), tt.ds)
			require.Error(t, err)
			assert.Equal(t, tt.code, gsserrors.CodeOf(err))
		})
	}
	assert.Empty(t, l.Loaded())
}

func TestLoadMany(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, All+".csv", allCSV)
	writeFile(t, dir, Panel06+".csv", panelCSV)
	writeFile(t, dir, Panel10+".csv", panelCSV)
	l := NewLoader(dir)

	got, err := l.LoadMany(t.Context(), All, Panel06, Panel10, Sub)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 4, got[Panel10].NRow())

	_, err = l.LoadMany(t.Context(), All, Panel08)
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeNotFound, gsserrors.CodeOf(err))
}

func TestLoaderConcurrentSameName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, Panel06+".csv", panelCSV)
	l := NewLoader(dir)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl, err := l.Load(context.Background(), Panel06)
			assert.NoError(t, err)
			assert.Equal(t, 4, tbl.NRow())
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{Panel06}, l.Loaded())
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, All+".csv", allCSV)
	l := NewLoader(dir)
	_, err := l.Load(t.Context(), All)
	require.NoError(t, err)

	st := l.Status()
	require.Len(t, st, 5)
	assert.Equal(t, All, st[0].Name)
	assert.Equal(t, filepath.Join(dir, All+".csv"), st[0].File)
	assert.True(t, st[0].Loaded)
	assert.False(t, st[1].Loaded)
	assert.Equal(t, "(from gss_all)", st.Rows()[1][2])
}

func TestStatusEncodesFlat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, All+".csv", allCSV)

	b, err := json.Marshal(NewLoader(dir).Status()[0])
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, All, got["name"])
	assert.Equal(t, filepath.Join(dir, All+".csv"), got["file"])
	assert.Equal(t, false, got["loaded"])
	assert.NotContains(t, got, "Info")

	y, err := yaml.Marshal(NewLoader(dir).Status()[0])
	require.NoError(t, err)
	assert.Contains(t, string(y), "name: "+All)
	assert.NotContains(t, string(y), "info:")
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(EnvDataDir, "/data/gss")
	assert.Equal(t, "/data/gss", DefaultDir())
	assert.Equal(t, "/data/gss", NewLoader("").Dir())
}
