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

// Package table provides the immutable, column-oriented data container used
// throughout gssr.
//
// A Table is an ordered set of equal-length columns. Four column kinds exist:
//
//   - Numeric: float64 values with a missing-value mask
//   - Text: string values with a missing-value mask
//   - Factor: categorical values stored as level indices (-1 is missing)
//   - Labelled: numeric codes paired with a shared, immutable LabelSet that
//     maps codes to labels and designates some codes as missing
//
// Columns and tables are never modified in place. Every conversion
// (Labelled.Zap, Labelled.AsFactor, Factor.Relabel, Table.With, ...)
// returns a new value, so a table loaded once can be shared freely.
//
// Usage:
//
//	ls := table.NewLabelSet("fefam", []table.Label{
//	    {Code: 1, Text: "strongly agree"},
//	    {Code: 2, Text: "agree"},
//	    {Code: 8, Text: "don't know"},
//	}, []float64{8})
//	col := table.NewLabelled("fefam", []float64{1, 2, 8}, nil, ls)
//	f := col.Zap().AsFactor() // levels: strongly agree, agree, don't know; third row missing
package table
