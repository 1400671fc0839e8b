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
	"fmt"
	"math"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/labels"
	"github.com/gssr-go/gssr/pkg/table"
)

// Step names.
const (
	StepZap            = "zap"
	StepNumeric        = "numeric"
	StepFactor         = "factor"
	StepCapwords       = "capwords"
	StepYearFactor     = "year_f"
	StepYoung          = "young"
	StepNonSubstantive = "fefam"
	StepBinary         = "fefam_d"
	StepBinaryCode     = "fefam_n"
	StepCompositeWt    = "compwt"
	StepSampleRC       = "samplerc"
)

// requireColumns returns the named columns or a CONFIGURATION error naming
// the first one that is absent.
func requireColumns(t table.Table, step string, names ...string) ([]table.Column, error) {
	out := make([]table.Column, len(names))
	for i, n := range names {
		if !t.Has(n) {
			return nil, gsserrors.NewWithContext(gsserrors.ErrCodeConfiguration,
				fmt.Sprintf("step %s: column %q not found", step, n),
				map[string]any{"step": step, "column": n})
		}
		out[i], _ = t.Column(n)
	}
	return out, nil
}

func withAll(t table.Table, cols ...table.Column) (table.Table, error) {
	var err error
	for _, c := range cols {
		if t, err = t.With(c); err != nil {
			return table.Table{}, err
		}
	}
	return t, nil
}

// ZapStep turns missing-value codes into NA in every labelled column.
func ZapStep() Step {
	return Step{Name: StepZap, Apply: func(t table.Table) (table.Table, error) {
		var zapped []table.Column
		for _, c := range t.Columns() {
			if l, ok := c.(*table.Labelled); ok {
				zapped = append(zapped, l.Zap())
			}
		}
		return withAll(t, zapped...)
	}}
}

// NumericStep converts the named columns to plain numbers. Cells that do not
// parse become NA.
func NumericStep(names []string) Step {
	return Step{Name: StepNumeric, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepNumeric, names...)
		if err != nil {
			return table.Table{}, err
		}
		out := make([]table.Column, len(cols))
		for i, c := range cols {
			if out[i], err = table.ToNumeric(c); err != nil {
				return table.Table{}, err
			}
		}
		return withAll(t, out...)
	}}
}

// FactorStep converts the named columns to factors using attached labels.
func FactorStep(names []string) Step {
	return Step{Name: StepFactor, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepFactor, names...)
		if err != nil {
			return table.Table{}, err
		}
		out := make([]table.Column, len(cols))
		for i, c := range cols {
			if out[i], err = table.ToFactor(c); err != nil {
				return table.Table{}, err
			}
		}
		return withAll(t, out...)
	}}
}

// CapwordsStep title-cases every level of the named factor columns. Levels
// that become equal are merged.
func CapwordsStep(names []string) Step {
	return Step{Name: StepCapwords, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepCapwords, names...)
		if err != nil {
			return table.Table{}, err
		}
		out := make([]table.Column, len(cols))
		for i, c := range cols {
			f, err := table.ToFactor(c)
			if err != nil {
				return table.Table{}, err
			}
			out[i] = f.Relabel(func(s string) string { return labels.Capwords(s, true) })
		}
		return withAll(t, out...)
	}}
}

// AgeGroupStep adds name as the quantile groups of the age column, labelled
// with labels.ConvertAgeGroup.
func AgeGroupStep(name, age string, probs []float64) Step {
	return Step{Name: name, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, name, age)
		if err != nil {
			return table.Table{}, err
		}
		n, err := table.ToNumeric(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		f, err := QuantileCut(name, n, probs)
		if err != nil {
			return table.Table{}, err
		}
		return t.With(f.Relabel(labels.ConvertAgeGroup))
	}}
}

// YearFactorStep adds year_f, the survey year as a factor of the years that
// occur.
func YearFactorStep(year string) Step {
	return Step{Name: StepYearFactor, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepYearFactor, year)
		if err != nil {
			return table.Table{}, err
		}
		n, err := table.ToNumeric(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		return t.With(table.FactorFromNumeric(ColumnYearFactor, n).DropUnused())
	}}
}

// YoungStep adds young: "Yes" when age is below limit, "No" otherwise, NA
// when age is NA.
func YoungStep(age string, limit float64) Step {
	return Step{Name: StepYoung, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepYoung, age)
		if err != nil {
			return table.Table{}, err
		}
		n, err := table.ToNumeric(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		codes := make([]int, n.Len())
		for i := range codes {
			v, ok := n.At(i)
			switch {
			case !ok:
				codes[i] = -1
			case v < limit:
				codes[i] = 1
			default:
				codes[i] = 0
			}
		}
		return t.With(table.NewFactor(ColumnYoung, []string{"No", "Yes"}, codes))
	}}
}

// NonSubstantiveStep turns the given levels of the likert column into NA.
func NonSubstantiveStep(likert string, drop []string) Step {
	return Step{Name: StepNonSubstantive, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepNonSubstantive, likert)
		if err != nil {
			return table.Table{}, err
		}
		f, err := table.ToFactor(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		return t.With(f.DropLevels(drop...))
	}}
}

// BinaryStep adds fefam_d, the likert column collapsed through collapse
// onto exactly two levels. Any level that is neither agree nor disagree
// after collapsing is NA.
func BinaryStep(likert string, collapse map[string]string, agree, disagree string) Step {
	return Step{Name: StepBinary, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepBinary, likert)
		if err != nil {
			return table.Table{}, err
		}
		f, err := table.ToFactor(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		r := f.Recode(collapse)
		values := make([]string, r.Len())
		na := make([]bool, r.Len())
		for i := range values {
			values[i], _ = r.At(i)
			na[i] = r.IsNA(i)
		}
		return t.With(table.FactorFromStrings(ColumnBinary, values, na, []string{agree, disagree}))
	}}
}

// BinaryCodeStep adds fefam_n from fefam_d: agree is 0, disagree is 1.
func BinaryCodeStep(agree, disagree string) Step {
	return Step{Name: StepBinaryCode, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepBinaryCode, ColumnBinary)
		if err != nil {
			return table.Table{}, err
		}
		f, err := table.ToFactor(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		vals := make([]float64, f.Len())
		na := make([]bool, f.Len())
		for i := range vals {
			s, ok := f.At(i)
			switch {
			case ok && s == agree:
				vals[i] = 0
			case ok && s == disagree:
				vals[i] = 1
			default:
				na[i] = true
			}
		}
		return t.With(table.NewNumeric(ColumnBinaryCode, vals, na))
	}}
}

// CompositeWeightStep adds compwt as the row-wise product of the three
// weight columns. A missing input gives a missing weight.
func CompositeWeightStep(oversamp, formwt, wtssall string) Step {
	return Step{Name: StepCompositeWt, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepCompositeWt, oversamp, formwt, wtssall)
		if err != nil {
			return table.Table{}, err
		}
		nums := make([]*table.Numeric, len(cols))
		for i, c := range cols {
			if nums[i], err = table.ToNumeric(c); err != nil {
				return table.Table{}, err
			}
		}
		vals := make([]float64, t.NRow())
		na := make([]bool, t.NRow())
		for i := range vals {
			w := 1.0
			for _, n := range nums {
				v, ok := n.At(i)
				if !ok {
					na[i] = true
					break
				}
				w *= v
			}
			if !na[i] {
				vals[i] = w
			}
		}
		return t.With(table.NewNumeric(ColumnCompositeWt, vals, na))
	}}
}

// SampleRecodeStep adds samplerc, the sample column with pooled codes
// replaced. Codes not in pools pass through unchanged.
func SampleRecodeStep(sample string, pools map[int]int) Step {
	return Step{Name: StepSampleRC, Apply: func(t table.Table) (table.Table, error) {
		cols, err := requireColumns(t, StepSampleRC, sample)
		if err != nil {
			return table.Table{}, err
		}
		n, err := table.ToNumeric(cols[0])
		if err != nil {
			return table.Table{}, err
		}
		return t.With(n.Map(ColumnSampleRC, func(v float64) (float64, bool) {
			if v == math.Trunc(v) {
				if to, ok := pools[int(v)]; ok {
					return float64(to), true
				}
			}
			return v, true
		}))
	}}
}
