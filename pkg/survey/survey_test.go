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


package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

func num(name string, na []bool, v ...float64) *table.Numeric {
	return table.NewNumeric(name, v, na)
}

func text(name string, na []bool, v ...string) *table.Text {
	return table.NewText(name, v, na)
}

// designTable has two years, two strata per year and a missing fefam_n
// in row 5. Stratum 2021.2 holds a single PSU.
func designTable() table.Table {
	return table.MustNew(
		num("year", nil, 2018, 2018, 2018, 2018, 2021, 2021, 2021, 2021),
		num("vstrat", nil, 1, 1, 2, 2, 1, 1, 2, 2),
		num("vpsu", nil, 1, 2, 1, 2, 1, 2, 1, 1),
		num("compwt", nil, 1, 2, 1, 0.5, 1, 1, 2, 2),
		text("young", nil, "Yes", "No", "No", "Yes", "No", "No", "Yes", "No"),
		text("fefam_d", nil, "Agree", "Disagree", "Disagree", "Agree", "Agree", "Agree", "Disagree", "Disagree"),
		num("fefam_n", []bool{false, false, false, false, false, true, false, false}, 0, 1, 1, 0, 0, 0, 1, 1),
	)
}

func TestParseLonelyPSU(t *testing.T) {
	for _, m := range LonelyPSUModes() {
		got, err := ParseLonelyPSU(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseLonelyPSU("drop")
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))
}

func TestSetLonelyPSU(t *testing.T) {
	t.Cleanup(resetLonelyPSU)
	resetLonelyPSU()

	_, ok := LonelyPSUOption()
	assert.False(t, ok)

	require.Error(t, SetLonelyPSU("sometimes"))
	_, ok = LonelyPSUOption()
	assert.False(t, ok)

	require.NoError(t, SetLonelyPSU(LonelyAdjust))
	mode, ok := LonelyPSUOption()
	assert.True(t, ok)
	assert.Equal(t, LonelyAdjust, mode)
}

func TestNewDesign(t *testing.T) {
	spec := DefaultDesignSpec()
	spec.Weights = "compwt"
	spec.Require = []string{"fefam_n"}

	d, err := NewDesign(designTable(), spec)
	require.NoError(t, err)

	assert.Equal(t, 7, d.Data().NRow())
	assert.Equal(t, []string{"2018.1", "2018.2", "2021.1", "2021.2"}, d.Strata().Levels())
	assert.Equal(t, "2021.1", d.Strata().String(4))
	assert.True(t, d.Data().Has(StratumColumn))
	assert.Equal(t, "2018.1/2", d.PSU(1))
	assert.Equal(t, 2.0, d.Weight(1))
	assert.Equal(t, spec, d.Spec())
}

func TestNewDesignKeepsRowsWithoutRequire(t *testing.T) {
	spec := DefaultDesignSpec()
	spec.Require = nil
	d, err := NewDesign(designTable(), spec)
	require.NoError(t, err)
	assert.Equal(t, 8, d.Data().NRow())
}

func TestDefaultDesignSpecRequiresYoungAndBinary(t *testing.T) {
	assert.Equal(t, []string{"young", "fefam_d"}, DefaultDesignSpec().Require)

	tbl := table.MustNew(
		num("year", nil, 2018, 2018, 2018, 2018),
		num("vstrat", nil, 1, 1, 1, 1),
		num("vpsu", nil, 1, 2, 1, 2),
		num("compwt", nil, 1, 1, 1, 1),
		text("young", []bool{false, true, false, false}, "Yes", "", "No", "No"),
		text("fefam_d", []bool{false, false, true, false}, "Agree", "Agree", "", "Disagree"),
	)
	d, err := NewDesign(tbl, DefaultDesignSpec())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Data().NRow())
	for i := 0; i < d.Data().NRow(); i++ {
		row := d.Data().Row(i)
		assert.NotNil(t, row["young"])
		assert.NotNil(t, row["fefam_d"])
	}

	tbl = tbl.Drop("young")
	_, err = NewDesign(tbl, DefaultDesignSpec())
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeConfiguration, gsserrors.CodeOf(err))
}

func TestNewDesignMinYear(t *testing.T) {
	spec := DefaultDesignSpec()
	spec.MinYear = 2020
	d, err := NewDesign(designTable(), spec)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Data().NRow())
	assert.Equal(t, []string{"2021.1", "2021.2"}, d.Strata().Levels())
}

func TestStrataLevelsNumericOrder(t *testing.T) {
	tbl := table.MustNew(
		num("year", nil, 2000, 1998, 2000, 1998),
		num("vstrat", nil, 10, 9, 9, 10),
	)
	f, err := interaction(tbl, StratumColumn, []string{"year", "vstrat"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1998.9", "1998.10", "2000.9", "2000.10"}, f.Levels())
	assert.Equal(t, "2000.10", f.String(0))
}

func TestNewDesignErrors(t *testing.T) {
	tests := []struct {
		name   string
		tbl    table.Table
		mutate func(*DesignSpec)
		code   gsserrors.ErrorCode
	}{
		{"no psu", designTable(), func(s *DesignSpec) { s.PSU = "" }, gsserrors.ErrCodeConfiguration},
		{"no strata", designTable(), func(s *DesignSpec) { s.Strata = nil }, gsserrors.ErrCodeConfiguration},
		{"no weights", designTable(), func(s *DesignSpec) { s.Weights = "" }, gsserrors.ErrCodeConfiguration},
		{"min year without column", designTable(), func(s *DesignSpec) { s.MinYear = 2000; s.YearColumn = "" }, gsserrors.ErrCodeConfiguration},
		{"absent column", designTable(), func(s *DesignSpec) { s.Require = []string{"polviews"} }, gsserrors.ErrCodeConfiguration},
		{"no complete rows", designTable(), func(s *DesignSpec) { s.MinYear = 2030 }, gsserrors.ErrCodeInvalidRequest},
		{
			"negative weight",
			table.MustNew(num("year", nil, 2018), num("vstrat", nil, 1), num("vpsu", nil, 1), num("compwt", nil, -1)),
			func(s *DesignSpec) { s.Require = nil },
			gsserrors.ErrCodeInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultDesignSpec()
			tt.mutate(&spec)
			_, err := NewDesign(tt.tbl, spec)
			require.Error(t, err)
			assert.Equal(t, tt.code, gsserrors.CodeOf(err))
		})
	}
}

func TestSummary(t *testing.T) {
	t.Cleanup(resetLonelyPSU)
	resetLonelyPSU()

	d, err := NewDesign(designTable(), DefaultDesignSpec())
	require.NoError(t, err)

	s := d.Summary()
	assert.Equal(t, 8, s.Rows)
	assert.Equal(t, 4, s.Strata)
	assert.Equal(t, 7, s.PSUs)
	assert.Equal(t, 1, s.Singletons)
	assert.Equal(t, []string{"2021.2"}, s.SingletonStrata)
	assert.InDelta(t, 10.5, s.WeightTotal, 1e-12)
	assert.True(t, s.Nest)
	assert.Empty(t, s.LonelyPSU)

	spec := DefaultDesignSpec()
	spec.Nest = false
	d, err = NewDesign(designTable(), spec)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Summary().PSUs)
}

// meanEstimator returns the weighted mean with no variance, enough to check
// what reaches the estimator.
func meanEstimator(calls *int) Estimator {
	return EstimatorFunc(func(_ context.Context, d *Design, q Query) (Result, error) {
		*calls++
		v, err := table.NumericColumn(d.Data(), q.Variable)
		if err != nil {
			return Result{}, err
		}
		var sum, wsum float64
		for i := 0; i < v.Len(); i++ {
			x, ok := v.At(i)
			if !ok {
				continue
			}
			sum += x * d.Weight(i)
			wsum += d.Weight(i)
		}
		m := sum / wsum
		return Result{Estimates: []Estimate{{Value: m, Lower: m, Upper: m}}}, nil
	})
}

func TestEstimateRequiresLonelyPSU(t *testing.T) {
	t.Cleanup(resetLonelyPSU)
	resetLonelyPSU()

	d, err := NewDesign(designTable(), DefaultDesignSpec())
	require.NoError(t, err)

	calls := 0
	_, err = d.Estimate(t.Context(), meanEstimator(&calls), Query{Variable: "fefam_n"})
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeConfiguration, gsserrors.CodeOf(err))
	assert.Zero(t, calls)
}

func TestEstimate(t *testing.T) {
	t.Cleanup(resetLonelyPSU)
	require.NoError(t, SetLonelyPSU(LonelyAdjust))

	spec := DefaultDesignSpec()
	spec.Require = []string{"fefam_n"}
	d, err := NewDesign(designTable(), spec)
	require.NoError(t, err)

	calls := 0
	res, err := d.Estimate(t.Context(), meanEstimator(&calls), Query{Variable: "fefam_n"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StatMean, res.Query.Statistic)
	assert.Equal(t, DefaultLevel, res.Query.Level)
	require.Len(t, res.Estimates, 1)
	// (0*1 + 1*2 + 1*1 + 0*0.5 + 0*1 + 1*2 + 1*2) / 9.5
	assert.InDelta(t, 7/9.5, res.Estimates[0].Value, 1e-12)

	assert.Equal(t, []string{"MEAN", "SE", "LOWER", "UPPER"}, res.Header())
	assert.Len(t, res.Rows(), 1)
}

func TestEstimateErrors(t *testing.T) {
	t.Cleanup(resetLonelyPSU)
	d, err := NewDesign(designTable(), DefaultDesignSpec())
	require.NoError(t, err)
	calls := 0
	est := meanEstimator(&calls)

	require.NoError(t, SetLonelyPSU(LonelyFail))
	_, err = d.Estimate(t.Context(), est, Query{Variable: "fefam_n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single sampling unit")

	require.NoError(t, SetLonelyPSU(LonelyRemove))
	tests := []struct {
		name string
		est  Estimator
		q    Query
		code gsserrors.ErrorCode
	}{
		{"nil estimator", nil, Query{Variable: "fefam_n"}, gsserrors.ErrCodeConfiguration},
		{"unknown column", est, Query{Variable: "polviews"}, gsserrors.ErrCodeConfiguration},
		{"unknown by column", est, Query{Variable: "fefam_n", By: []string{"sex"}}, gsserrors.ErrCodeConfiguration},
		{"bad statistic", est, Query{Variable: "fefam_n", Statistic: "median"}, gsserrors.ErrCodeInvalidRequest},
		{"bad level", est, Query{Variable: "fefam_n", Level: 95}, gsserrors.ErrCodeInvalidRequest},
		{
			"estimator failure",
			EstimatorFunc(func(context.Context, *Design, Query) (Result, error) { return Result{}, errors.New("singular") }),
			Query{Variable: "fefam_n"},
			gsserrors.ErrCodeInternal,
		},
		{
			"estimator timeout",
			EstimatorFunc(func(context.Context, *Design, Query) (Result, error) { return Result{}, context.DeadlineExceeded }),
			Query{Variable: "fefam_n"},
			gsserrors.ErrCodeTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Estimate(t.Context(), tt.est, tt.q)
			require.Error(t, err)
			assert.Equal(t, tt.code, gsserrors.CodeOf(err))
		})
	}
	assert.Zero(t, calls)
}

func TestResultTabularWithGroups(t *testing.T) {
	r := Result{
		Query: Query{Variable: "fefam_n", By: []string{"young"}, Statistic: StatMean},
		Estimates: []Estimate{
			{Group: map[string]string{"young": "No"}, Value: 0.25, SE: 0.01, Lower: 0.23, Upper: 0.27},
			{Group: map[string]string{"young": "Yes"}, Value: 0.5},
		},
	}
	assert.Equal(t, []string{"YOUNG", "MEAN", "SE", "LOWER", "UPPER"}, r.Header())
	assert.Equal(t, []string{"No", "0.25", "0.01", "0.23", "0.27"}, r.Rows()[0])
	assert.Equal(t, "Yes", r.Rows()[1][0])
}
