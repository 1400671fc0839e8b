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

import "sort"

// Label pairs a numeric code with its text.
type Label struct {
	Code float64 `json:"code" yaml:"code"`
	Text string  `json:"label" yaml:"label"`
}

// LabelSet is an immutable code-to-label mapping with a set of codes that
// denote missing data. A LabelSet is shared by every column derived from
// the same source column.
type LabelSet struct {
	name    string
	entries []Label
	index   map[float64]int
	missing map[float64]struct{}
}

// NewLabelSet returns a LabelSet with entries ordered by code. When a code
// appears more than once the first entry wins.
func NewLabelSet(name string, entries []Label, missing []float64) *LabelSet {
	ls := &LabelSet{
		name:    name,
		index:   make(map[float64]int, len(entries)),
		missing: make(map[float64]struct{}, len(missing)),
	}
	for _, e := range entries {
		if _, dup := ls.index[e.Code]; dup {
			continue
		}
		ls.index[e.Code] = 0
		ls.entries = append(ls.entries, e)
	}
	sort.SliceStable(ls.entries, func(i, j int) bool { return ls.entries[i].Code < ls.entries[j].Code })
	for i, e := range ls.entries {
		ls.index[e.Code] = i
	}
	for _, m := range missing {
		ls.missing[m] = struct{}{}
	}
	return ls
}

// Name returns the label set name.
func (ls *LabelSet) Name() string {
	if ls == nil {
		return ""
	}
	return ls.name
}

// Lookup returns the label for code.
func (ls *LabelSet) Lookup(code float64) (string, bool) {
	if ls == nil {
		return "", false
	}
	i, ok := ls.index[code]
	if !ok {
		return "", false
	}
	return ls.entries[i].Text, true
}

// IsMissing reports whether code is designated missing.
func (ls *LabelSet) IsMissing(code float64) bool {
	if ls == nil {
		return false
	}
	_, ok := ls.missing[code]
	return ok
}

// Entries returns a copy of the labels ordered by code.
func (ls *LabelSet) Entries() []Label {
	if ls == nil {
		return nil
	}
	return append([]Label(nil), ls.entries...)
}

// Missing returns the missing codes in ascending order.
func (ls *LabelSet) Missing() []float64 {
	if ls == nil {
		return nil
	}
	out := make([]float64, 0, len(ls.missing))
	for m := range ls.missing {
		out = append(out, m)
	}
	sort.Float64s(out)
	return out
}

// Len returns the number of labels.
func (ls *LabelSet) Len() int {
	if ls == nil {
		return 0
	}
	return len(ls.entries)
}

// Labelled is a column of numeric codes carrying a LabelSet. Codes in the
// label set's missing list are ordinary values until Zap is applied.
type Labelled struct {
	name   string
	codes  []float64
	na     []bool
	labels *LabelSet
}

// NewLabelled returns a Labelled column. The slices are not copied; na may
// be nil and labels may be nil.
func NewLabelled(name string, codes []float64, na []bool, labels *LabelSet) *Labelled {
	return &Labelled{name: name, codes: codes, na: na, labels: labels}
}

func (c *Labelled) Name() string    { return c.name }
func (c *Labelled) Len() int        { return len(c.codes) }
func (c *Labelled) Kind() Kind      { return KindLabelled }
func (c *Labelled) IsNA(i int) bool { return isNA(c.na, i) }

// Labels returns the shared label set.
func (c *Labelled) Labels() *LabelSet { return c.labels }

// At returns the code at row i and whether it is present.
func (c *Labelled) At(i int) (float64, bool) {
	if c.IsNA(i) {
		return 0, false
	}
	return c.codes[i], true
}

// String renders the label of row i, or its code when unlabelled.
func (c *Labelled) String(i int) string {
	if c.IsNA(i) {
		return ""
	}
	if l, ok := c.labels.Lookup(c.codes[i]); ok {
		return l
	}
	return FormatNumber(c.codes[i])
}

func (c *Labelled) Value(i int) any {
	if c.IsNA(i) {
		return nil
	}
	return c.codes[i]
}

func (c *Labelled) Take(rows []int) Column {
	codes := make([]float64, len(rows))
	for j, r := range rows {
		codes[j] = c.codes[r]
	}
	return NewLabelled(c.name, codes, takeMask(c.na, rows), c.labels)
}

func (c *Labelled) Rename(name string) Column {
	return NewLabelled(name, c.codes, c.na, c.labels)
}

// Zap returns a column in which every code designated missing by the label
// set is NA. The label set is kept unchanged.
func (c *Labelled) Zap() *Labelled {
	miss := copyMask(c.na, len(c.codes))
	for i, v := range c.codes {
		if c.labels.IsMissing(v) {
			miss[i] = true
		}
	}
	return NewLabelled(c.name, c.codes, miss, c.labels)
}

// AsNumeric drops the labels and keeps the codes.
func (c *Labelled) AsNumeric() *Numeric {
	return NewNumeric(c.name, c.codes, copyMask(c.na, len(c.codes)))
}

// AsFactor converts codes to a Factor. Levels are every labelled code plus
// every unlabelled code present in the column, ordered by code; unlabelled
// codes use their numeric text. Codes sharing a label share a level.
func (c *Labelled) AsFactor() *Factor {
	var codes []float64
	seen := make(map[float64]struct{})
	for _, e := range c.labels.Entries() {
		seen[e.Code] = struct{}{}
		codes = append(codes, e.Code)
	}
	for i, v := range c.codes {
		if c.IsNA(i) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			codes = append(codes, v)
		}
	}
	sort.Float64s(codes)

	var levels []string
	levelIndex := make(map[string]int)
	codeIndex := make(map[float64]int, len(codes))
	for _, code := range codes {
		text, ok := c.labels.Lookup(code)
		if !ok {
			text = FormatNumber(code)
		}
		idx, ok := levelIndex[text]
		if !ok {
			idx = len(levels)
			levelIndex[text] = idx
			levels = append(levels, text)
		}
		codeIndex[code] = idx
	}

	out := make([]int, len(c.codes))
	for i, v := range c.codes {
		if c.IsNA(i) {
			out[i] = -1
			continue
		}
		out[i] = codeIndex[v]
	}
	return &Factor{name: c.name, levels: levels, codes: out}
}
