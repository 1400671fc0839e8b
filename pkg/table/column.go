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
)

// Kind identifies the storage of a Column.
type Kind int

const (
	// KindNumeric is a float64 column.
	KindNumeric Kind = iota
	// KindText is a string column.
	KindText
	// KindFactor is a categorical column.
	KindFactor
	// KindLabelled is a numeric code column with attached value labels.
	KindLabelled
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindFactor:
		return "factor"
	case KindLabelled:
		return "labelled"
	default:
		return "unknown"
	}
}

// Column is a named, fixed-length sequence of values with missing-value
// tracking.
type Column interface {
	// Name returns the column name.
	Name() string
	// Len returns the number of rows.
	Len() int
	// Kind returns the storage kind.
	Kind() Kind
	// IsNA reports whether row i is missing.
	IsNA(i int) bool
	// String renders row i; missing rows render as "".
	String(i int) string
	// Value returns row i as float64 or string, or nil when missing.
	Value(i int) any
	// Take returns a new column holding the given rows in the given order.
	Take(rows []int) Column
	// Rename returns a copy of the column with a new name.
	Rename(name string) Column
}

// FormatNumber renders a float the way values are shown in tables and factor
// levels: integers without a decimal point, everything else in the shortest
// round-trip form.
func FormatNumber(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isNA(na []bool, i int) bool {
	return na != nil && na[i]
}

func takeMask(na []bool, rows []int) []bool {
	if na == nil {
		return nil
	}
	out := make([]bool, len(rows))
	for j, r := range rows {
		out[j] = na[r]
	}
	return out
}

func copyMask(na []bool, n int) []bool {
	out := make([]bool, n)
	if na != nil {
		copy(out, na)
	}
	return out
}
