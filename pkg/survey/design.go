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
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/recode"
	"github.com/gssr-go/gssr/pkg/table"
)

// StratumColumn names the synthetic stratum column added to design data.
const StratumColumn = "stratum"

// DesignSpec names the columns of a survey design.
type DesignSpec struct {
	// PSU is the primary sampling unit column.
	PSU string `json:"psu" yaml:"psu"`
	// Strata are crossed to form the synthetic stratum, one level per
	// observed combination, labelled "<a>.<b>".
	Strata []string `json:"strata" yaml:"strata"`
	// Weights is the case weight column.
	Weights string `json:"weights" yaml:"weights"`
	// Nest marks PSU codes as unique only within their stratum.
	Nest bool `json:"nest" yaml:"nest"`
	// Require lists analysis columns; rows missing any of them are dropped.
	Require []string `json:"require,omitempty" yaml:"require,omitempty"`
	// YearColumn and MinYear restrict the design to later survey years.
	// A zero MinYear keeps every year.
	YearColumn string  `json:"yearColumn,omitempty" yaml:"yearColumn,omitempty"`
	MinYear    float64 `json:"minYear,omitempty" yaml:"minYear,omitempty"`
}

// DefaultDesignSpec returns the GSS design: vpsu clusters within
// year-by-vstrat strata, weighted by the composite weight. Rows missing the
// young indicator or the binary fefam response are dropped.
func DefaultDesignSpec() DesignSpec {
	return DesignSpec{
		PSU:        "vpsu",
		Strata:     []string{"year", "vstrat"},
		Weights:    recode.ColumnCompositeWt,
		Nest:       true,
		Require:    []string{recode.ColumnYoung, recode.ColumnBinary},
		YearColumn: "year",
	}
}

func (s DesignSpec) validate() error {
	switch {
	case s.PSU == "":
		return gsserrors.New(gsserrors.ErrCodeConfiguration, "design has no PSU column")
	case len(s.Strata) == 0:
		return gsserrors.New(gsserrors.ErrCodeConfiguration, "design has no strata columns")
	case s.Weights == "":
		return gsserrors.New(gsserrors.ErrCodeConfiguration, "design has no weight column")
	case s.MinYear != 0 && s.YearColumn == "":
		return gsserrors.New(gsserrors.ErrCodeConfiguration, "design has a minimum year but no year column")
	}
	return nil
}

// columns returns every column the design reads, without duplicates.
func (s DesignSpec) columns() []string {
	var out []string
	seen := map[string]bool{}
	add := func(names ...string) {
		for _, n := range names {
			if n != "" && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(s.PSU)
	add(s.Strata...)
	add(s.Weights)
	add(s.Require...)
	return out
}

// Design is a survey design bound to complete-case data. It is handed to
// an external Estimator; no estimation happens here.
type Design struct {
	spec    DesignSpec
	data    table.Table
	strata  *table.Factor
	psu     []string
	weights *table.Numeric
}

// NewDesign drops incomplete rows, builds the synthetic stratum and binds
// the design columns. Absent columns are CONFIGURATION errors; a table with
// no complete rows is an INVALID_REQUEST error.
func NewDesign(t table.Table, spec DesignSpec) (*Design, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	cols := spec.columns()
	if spec.MinYear != 0 {
		cols = append(cols, spec.YearColumn)
	}
	for _, name := range cols {
		if !t.Has(name) {
			return nil, gsserrors.NewWithContext(gsserrors.ErrCodeConfiguration,
				fmt.Sprintf("design column %q not found", name),
				map[string]any{"column": name})
		}
	}

	if spec.MinYear != 0 {
		years, err := table.NumericColumn(t, spec.YearColumn)
		if err != nil {
			return nil, err
		}
		t = t.Filter(func(row int) bool {
			y, ok := years.At(row)
			return ok && y >= spec.MinYear
		})
	}

	before := t.NRow()
	data, err := t.DropNA(spec.columns()...)
	if err != nil {
		return nil, err
	}
	if data.NRow() == 0 {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			"no complete rows for the survey design",
			map[string]any{"rows": before, "columns": spec.columns()})
	}

	weights, err := table.NumericColumn(data, spec.Weights)
	if err != nil {
		return nil, err
	}
	for i := 0; i < weights.Len(); i++ {
		w, ok := weights.At(i)
		if !ok || w < 0 {
			return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
				"survey weights must be present and non-negative",
				map[string]any{"column": spec.Weights, "row": i + 1})
		}
	}

	strata, err := interaction(data, StratumColumn, spec.Strata)
	if err != nil {
		return nil, err
	}
	data, err = data.With(strata)
	if err != nil {
		return nil, err
	}

	psuCol, err := data.Column(spec.PSU)
	if err != nil {
		return nil, err
	}
	psu := make([]string, data.NRow())
	for i := range psu {
		psu[i] = psuCol.String(i)
	}

	d := &Design{spec: spec, data: data, strata: strata, psu: psu, weights: weights}
	slog.Debug("survey design built",
		"rows", data.NRow(),
		"dropped", before-data.NRow(),
		"strata", len(strata.Levels()),
	)
	return d, nil
}

// Spec returns the design specification.
func (d *Design) Spec() DesignSpec { return d.spec }

// Data returns the complete-case table, including the stratum column.
func (d *Design) Data() table.Table { return d.data }

// Strata returns the synthetic stratum factor.
func (d *Design) Strata() *table.Factor { return d.strata }

// PSU returns the sampling unit of row i. Under nesting the unit is
// qualified by its stratum.
func (d *Design) PSU(i int) string {
	if d.spec.Nest {
		return d.strata.String(i) + "/" + d.psu[i]
	}
	return d.psu[i]
}

// Weight returns the case weight of row i.
func (d *Design) Weight(i int) float64 {
	w, _ := d.weights.At(i)
	return w
}

// interaction crosses the named columns into a factor whose levels are the
// observed combinations joined with ".", ordered component-wise with
// numeric comparison where both parts are numbers.
func interaction(t table.Table, name string, names []string) (*table.Factor, error) {
	cols := make([]table.Column, len(names))
	for j, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}

	keys := make([]string, t.NRow())
	parts := map[string][]string{}
	for i := range keys {
		p := make([]string, len(cols))
		for j, c := range cols {
			p[j] = c.String(i)
		}
		k := strings.Join(p, ".")
		keys[i] = k
		if _, ok := parts[k]; !ok {
			parts[k] = p
		}
	}

	levels := make([]string, 0, len(parts))
	for k := range parts {
		levels = append(levels, k)
	}
	sort.Slice(levels, func(a, b int) bool {
		return lessParts(parts[levels[a]], parts[levels[b]])
	})
	return table.FactorFromStrings(name, keys, nil, levels), nil
}

func lessParts(a, b []string) bool {
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		x, errX := strconv.ParseFloat(a[i], 64)
		y, errY := strconv.ParseFloat(b[i], 64)
		if errX == nil && errY == nil && x != y {
			return x < y
		}
		return a[i] < b[i]
	}
	return false
}
