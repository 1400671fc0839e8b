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

// Text is a string column.
type Text struct {
	name   string
	values []string
	na     []bool
}

// NewText returns a Text column. The slices are not copied; na may be nil.
func NewText(name string, values []string, na []bool) *Text {
	return &Text{name: name, values: values, na: na}
}

func (c *Text) Name() string    { return c.name }
func (c *Text) Len() int        { return len(c.values) }
func (c *Text) Kind() Kind      { return KindText }
func (c *Text) IsNA(i int) bool { return isNA(c.na, i) }

// At returns the value at row i and whether it is present.
func (c *Text) At(i int) (string, bool) {
	if c.IsNA(i) {
		return "", false
	}
	return c.values[i], true
}

func (c *Text) String(i int) string {
	if c.IsNA(i) {
		return ""
	}
	return c.values[i]
}

func (c *Text) Value(i int) any {
	if c.IsNA(i) {
		return nil
	}
	return c.values[i]
}

func (c *Text) Take(rows []int) Column {
	vals := make([]string, len(rows))
	for j, r := range rows {
		vals[j] = c.values[r]
	}
	return NewText(c.name, vals, takeMask(c.na, rows))
}

func (c *Text) Rename(name string) Column {
	return NewText(name, c.values, c.na)
}

// AsNumeric parses the column as numbers; unparsable cells become missing.
func (c *Text) AsNumeric() *Numeric {
	return NumericFromStrings(c.name, c.values, c.na)
}

// NullStringMissing returns a copy in which empty strings are missing.
func (c *Text) NullStringMissing() *Text {
	miss := copyMask(c.na, len(c.values))
	for i, v := range c.values {
		if v == "" {
			miss[i] = true
		}
	}
	return NewText(c.name, c.values, miss)
}
