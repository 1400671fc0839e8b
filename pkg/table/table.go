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
	"fmt"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// Table is an immutable ordered collection of equal-length columns.
// The zero value is an empty table.
type Table struct {
	cols  []Column
	index map[string]int
	nrow  int
}

// New returns a Table holding cols. Column names must be unique and every
// column must have the same length.
func New(cols ...Column) (Table, error) {
	t := Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return Table{}, gsserrors.New(gsserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("column %d is nil", i))
		}
		if _, dup := t.index[c.Name()]; dup {
			return Table{}, gsserrors.New(gsserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("duplicate column %q", c.Name()))
		}
		if i == 0 {
			t.nrow = c.Len()
		} else if c.Len() != t.nrow {
			return Table{}, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("column %q has %d rows, want %d", c.Name(), c.Len(), t.nrow),
				map[string]any{"column": c.Name()})
		}
		t.index[c.Name()] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is New that panics on error. Intended for tests and literals.
func MustNew(cols ...Column) Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NRow returns the number of rows.
func (t Table) NRow() int { return t.nrow }

// NCol returns the number of columns.
func (t Table) NCol() int { return len(t.cols) }

// Names returns the column names in order.
func (t Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in order.
func (t Table) Columns() []Column {
	return append([]Column(nil), t.cols...)
}

// Has reports whether a column named name exists.
func (t Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("column %q not found", name), map[string]any{"column": name})
	}
	return t.cols[i], nil
}

// With returns a table in which c replaces the column of the same name, or
// is appended when no such column exists.
func (t Table) With(c Column) (Table, error) {
	cols := t.Columns()
	if i, ok := t.index[c.Name()]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Select returns a table with only the named columns, in the given order.
func (t Table) Select(names ...string) (Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return Table{}, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Drop returns a table without the named columns. Unknown names are ignored.
func (t Table) Drop(names ...string) Table {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	var cols []Column
	for _, c := range t.cols {
		if _, ok := skip[c.Name()]; !ok {
			cols = append(cols, c)
		}
	}
	out, _ := New(cols...)
	if len(cols) == 0 {
		out.nrow = 0
	}
	return out
}

// Take returns a table with the given rows in the given order.
func (t Table) Take(rows []int) Table {
	out := Table{index: t.index, nrow: len(rows), cols: make([]Column, len(t.cols))}
	for i, c := range t.cols {
		out.cols[i] = c.Take(rows)
	}
	return out
}

// Filter returns the rows for which keep returns true.
func (t Table) Filter(keep func(row int) bool) Table {
	rows := make([]int, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// DropNA returns the rows that are present in every named column.
func (t Table) DropNA(names ...string) (Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return Table{}, err
		}
		cols = append(cols, c)
	}
	return t.Filter(func(row int) bool {
		for _, c := range cols {
			if c.IsNA(row) {
				return false
			}
		}
		return true
	}), nil
}

// Row returns row i as a name-to-value map. Missing cells are nil.
func (t Table) Row(i int) map[string]any {
	out := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		out[c.Name()] = c.Value(i)
	}
	return out
}
