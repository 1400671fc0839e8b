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
	"math"
	"strconv"
	"strings"
)

// Numeric is a float64 column. NaN values are treated as missing.
type Numeric struct {
	name   string
	values []float64
	na     []bool
}

// NewNumeric returns a Numeric column. The slices are not copied; na may be
// nil when nothing is missing.
func NewNumeric(name string, values []float64, na []bool) *Numeric {
	return &Numeric{name: name, values: values, na: na}
}

// NumericFromStrings parses each string as a float. Cells that are missing,
// blank, or fail to parse become missing.
func NumericFromStrings(name string, values []string, na []bool) *Numeric {
	out := make([]float64, len(values))
	miss := copyMask(na, len(values))
	for i, s := range values {
		if miss[i] {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			miss[i] = true
			continue
		}
		out[i] = v
	}
	return NewNumeric(name, out, miss)
}

func (c *Numeric) Name() string { return c.name }
func (c *Numeric) Len() int     { return len(c.values) }
func (c *Numeric) Kind() Kind   { return KindNumeric }

func (c *Numeric) IsNA(i int) bool {
	return isNA(c.na, i) || math.IsNaN(c.values[i])
}

// At returns the value at row i and whether it is present.
func (c *Numeric) At(i int) (float64, bool) {
	if c.IsNA(i) {
		return 0, false
	}
	return c.values[i], true
}

func (c *Numeric) String(i int) string {
	if c.IsNA(i) {
		return ""
	}
	return FormatNumber(c.values[i])
}

func (c *Numeric) Value(i int) any {
	if c.IsNA(i) {
		return nil
	}
	return c.values[i]
}

// Present returns the non-missing values in row order.
func (c *Numeric) Present() []float64 {
	out := make([]float64, 0, len(c.values))
	for i, v := range c.values {
		if !c.IsNA(i) {
			out = append(out, v)
		}
	}
	return out
}

func (c *Numeric) Take(rows []int) Column {
	vals := make([]float64, len(rows))
	for j, r := range rows {
		vals[j] = c.values[r]
	}
	return NewNumeric(c.name, vals, takeMask(c.na, rows))
}

func (c *Numeric) Rename(name string) Column {
	return NewNumeric(name, c.values, c.na)
}

// Map applies f to every present value. f returning ok=false marks the row
// missing.
func (c *Numeric) Map(name string, f func(float64) (float64, bool)) *Numeric {
	n := len(c.values)
	out := make([]float64, n)
	miss := make([]bool, n)
	for i, v := range c.values {
		if c.IsNA(i) {
			miss[i] = true
			continue
		}
		r, ok := f(v)
		if !ok {
			miss[i] = true
			continue
		}
		out[i] = r
	}
	return NewNumeric(name, out, miss)
}
