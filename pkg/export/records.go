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


package export

import "github.com/gssr-go/gssr/pkg/table"

// Records returns one name-to-value map per row for JSON and YAML output.
// Numeric cells are float64, text and factor cells are strings, labelled
// cells are their labels, and missing cells are nil.
func Records(t table.Table) []map[string]any {
	out := make([]map[string]any, t.NRow())
	cols := t.Columns()
	for i := range out {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			switch {
			case c.IsNA(i):
				row[c.Name()] = nil
			case c.Kind() == table.KindLabelled:
				row[c.Name()] = c.String(i)
			default:
				row[c.Name()] = c.Value(i)
			}
		}
		out[i] = row
	}
	return out
}

// View renders a table in the table output format.
type View struct {
	t table.Table
	// Limit caps the number of rows rendered; zero means all.
	Limit int
}

// NewView returns a View of t.
func NewView(t table.Table, limit int) View {
	return View{t: t, Limit: limit}
}

func (v View) Header() []string { return v.t.Names() }

func (v View) Rows() [][]string {
	n := v.t.NRow()
	if v.Limit > 0 && v.Limit < n {
		n = v.Limit
	}
	cols := v.t.Columns()
	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			if c.IsNA(i) {
				row[j] = "NA"
				continue
			}
			row[j] = c.String(i)
		}
		rows[i] = row
	}
	return rows
}
