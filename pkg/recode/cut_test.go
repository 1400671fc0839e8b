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

package recode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gssr-go/gssr/pkg/table"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{20, 30, 45, 70, 89}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 20},
		{0.25, 30},
		{0.5, 45},
		{0.75, 70},
		{1, 89},
		{0.2, 28},
		{0.1, 24},
	}
	for _, tt := range tests {
		got := Quantile(sorted, tt.p)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.Equal(t, float64(7), Quantile([]float64{7}, 0.5))
}

func TestBreaksCollapseDuplicates(t *testing.T) {
	got := Breaks([]float64{18, 18, 18, 18, 18, 40}, QuartileProbs)
	assert.Equal(t, []float64{18, 40}, got)

	assert.Equal(t, []float64{5}, Breaks([]float64{5, 5, 5}, QuartileProbs))
	assert.Nil(t, Breaks(nil, QuartileProbs))
}

func TestIntervalLabels(t *testing.T) {
	tests := []struct {
		name   string
		breaks []float64
		want   []string
	}{
		{"quartiles", []float64{20, 30, 45, 70, 89}, []string{"[20,30]", "(30,45]", "(45,70]", "(70,89]"}},
		{"fractional", []float64{18, 44.5, 89}, []string{"[18,44.5]", "(44.5,89]"}},
		{"three significant digits", []float64{18, 73.8333, 89}, []string{"[18,73.8]", "(73.8,89]"}},
		{"widened when equal", []float64{70.01, 70.02}, []string{"[70.01,70.02]"}},
		{"single", []float64{42}, []string{"[42,42]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalLabels(tt.breaks))
		})
	}
}

func TestCut(t *testing.T) {
	age := table.NewNumeric("age", []float64{20, 30, 31, 89, 10, 95, 0}, []bool{false, false, false, false, false, false, true})
	f, err := Cut("ageq", age, []float64{20, 30, 89})
	require.NoError(t, err)

	want := []string{"[20,30]", "[20,30]", "(30,89]", "(30,89]", "", "", ""}
	for i, w := range want {
		assert.Equal(t, w, f.String(i), "row %d", i)
	}

	_, err = Cut("x", age, nil)
	assert.Error(t, err)
	_, err = Cut("x", age, []float64{3, 1})
	assert.Error(t, err)
}

func TestQuantileCutAllMissing(t *testing.T) {
	age := table.NewNumeric("age", []float64{0, 0}, []bool{true, true})
	f, err := QuantileCut("ageq", age, QuartileProbs)
	require.NoError(t, err)
	assert.Empty(t, f.Levels())
	assert.True(t, f.IsNA(0))
	assert.True(t, f.IsNA(1))
}
