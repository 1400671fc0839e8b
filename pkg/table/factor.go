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
	"sort"
	"strconv"
)

// Factor is a categorical column. Each row stores an index into levels;
// -1 marks a missing row.
type Factor struct {
	name   string
	levels []string
	codes  []int
}

// NewFactor returns a Factor. Codes outside the level range are treated as
// missing.
func NewFactor(name string, levels []string, codes []int) *Factor {
	c := make([]int, len(codes))
	for i, v := range codes {
		if v < 0 || v >= len(levels) {
			v = -1
		}
		c[i] = v
	}
	return &Factor{name: name, levels: append([]string(nil), levels...), codes: c}
}

// FactorFromStrings builds a Factor from raw values. When levels is nil the
// levels are the distinct present values in sorted order. Values that are
// not a level become missing.
func FactorFromStrings(name string, values []string, na []bool, levels []string) *Factor {
	if levels == nil {
		seen := make(map[string]struct{})
		for i, v := range values {
			if isNA(na, i) {
				continue
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				levels = append(levels, v)
			}
		}
		sort.Strings(levels)
	}
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		if _, dup := index[l]; !dup {
			index[l] = i
		}
	}
	codes := make([]int, len(values))
	for i, v := range values {
		codes[i] = -1
		if isNA(na, i) {
			continue
		}
		if idx, ok := index[v]; ok {
			codes[i] = idx
		}
	}
	return &Factor{name: name, levels: append([]string(nil), levels...), codes: codes}
}

// FactorFromNumeric builds a Factor whose levels are the distinct present
// values of c in ascending numeric order.
func FactorFromNumeric(name string, c *Numeric) *Factor {
	present := c.Present()
	uniq := make(map[float64]struct{}, len(present))
	vals := make([]float64, 0, len(present))
	for _, v := range present {
		if _, ok := uniq[v]; !ok {
			uniq[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	levels := make([]string, len(vals))
	index := make(map[float64]int, len(vals))
	for i, v := range vals {
		levels[i] = FormatNumber(v)
		index[v] = i
	}
	codes := make([]int, c.Len())
	for i := range codes {
		v, ok := c.At(i)
		if !ok {
			codes[i] = -1
			continue
		}
		codes[i] = index[v]
	}
	return &Factor{name: name, levels: levels, codes: codes}
}

func (f *Factor) Name() string    { return f.name }
func (f *Factor) Len() int        { return len(f.codes) }
func (f *Factor) Kind() Kind      { return KindFactor }
func (f *Factor) IsNA(i int) bool { return f.codes[i] < 0 }

// Levels returns a copy of the level labels in level order.
func (f *Factor) Levels() []string {
	return append([]string(nil), f.levels...)
}

// Code returns the level index of row i, -1 when missing.
func (f *Factor) Code(i int) int { return f.codes[i] }

// At returns the level label of row i and whether it is present.
func (f *Factor) At(i int) (string, bool) {
	if f.IsNA(i) {
		return "", false
	}
	return f.levels[f.codes[i]], true
}

func (f *Factor) String(i int) string {
	s, _ := f.At(i)
	return s
}

func (f *Factor) Value(i int) any {
	if f.IsNA(i) {
		return nil
	}
	return f.levels[f.codes[i]]
}

func (f *Factor) Take(rows []int) Column {
	codes := make([]int, len(rows))
	for j, r := range rows {
		codes[j] = f.codes[r]
	}
	return &Factor{name: f.name, levels: f.levels, codes: codes}
}

func (f *Factor) Rename(name string) Column {
	return &Factor{name: name, levels: f.levels, codes: f.codes}
}

// Counts returns the number of rows per level.
func (f *Factor) Counts() []int {
	out := make([]int, len(f.levels))
	for _, c := range f.codes {
		if c >= 0 {
			out[c]++
		}
	}
	return out
}

// Relabel applies fn to every level label. Levels that become equal are
// merged into the first of them.
func (f *Factor) Relabel(fn func(string) string) *Factor {
	return f.remap(func(l string) (string, bool) { return fn(l), true })
}

// Recode renames levels through mapping. Levels absent from mapping keep
// their label; levels mapped to the empty string become missing. Levels
// that end up with the same label are merged.
func (f *Factor) Recode(mapping map[string]string) *Factor {
	return f.remap(func(l string) (string, bool) {
		n, ok := mapping[l]
		if !ok {
			return l, true
		}
		return n, n != ""
	})
}

// DropLevels turns every row at one of the named levels into a missing value
// and removes those levels.
func (f *Factor) DropLevels(drop ...string) *Factor {
	m := make(map[string]string, len(drop))
	for _, d := range drop {
		m[d] = ""
	}
	return f.Recode(m)
}

// DropUnused removes levels that no row uses.
func (f *Factor) DropUnused() *Factor {
	counts := f.Counts()
	remap := make([]int, len(f.levels))
	var levels []string
	for i, n := range counts {
		if n == 0 {
			remap[i] = -1
			continue
		}
		remap[i] = len(levels)
		levels = append(levels, f.levels[i])
	}
	return f.apply(levels, remap)
}

// AsNumeric parses each level as a number. Levels that are not numbers
// produce missing rows.
func (f *Factor) AsNumeric() *Numeric {
	parsed := make([]float64, len(f.levels))
	bad := make([]bool, len(f.levels))
	for i, l := range f.levels {
		v, err := strconv.ParseFloat(l, 64)
		parsed[i], bad[i] = v, err != nil
	}
	vals := make([]float64, len(f.codes))
	na := make([]bool, len(f.codes))
	for i, c := range f.codes {
		if c < 0 || bad[c] {
			na[i] = true
			continue
		}
		vals[i] = parsed[c]
	}
	return NewNumeric(f.name, vals, na)
}

func (f *Factor) remap(fn func(string) (string, bool)) *Factor {
	remap := make([]int, len(f.levels))
	index := make(map[string]int, len(f.levels))
	var levels []string
	for i, l := range f.levels {
		n, keep := fn(l)
		if !keep {
			remap[i] = -1
			continue
		}
		idx, ok := index[n]
		if !ok {
			idx = len(levels)
			index[n] = idx
			levels = append(levels, n)
		}
		remap[i] = idx
	}
	return f.apply(levels, remap)
}

func (f *Factor) apply(levels []string, remap []int) *Factor {
	codes := make([]int, len(f.codes))
	for i, c := range f.codes {
		if c < 0 {
			codes[i] = -1
			continue
		}
		codes[i] = remap[c]
	}
	return &Factor{name: f.name, levels: levels, codes: codes}
}
