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


package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// ctxCheckRows is how often the CSV reader checks for cancellation.
const ctxCheckRows = 4096

// IsNAToken reports whether a CSV cell denotes a missing value.
func IsNAToken(s string) bool {
	return s == "" || s == "NA"
}

// ReadCSV reads a CSV file with a header row. A column whose present cells
// all parse as numbers becomes table.Numeric; any other column becomes
// table.Text. Empty cells and "NA" are missing.
func ReadCSV(ctx context.Context, r io.Reader) (table.Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table.Table{}, nil
	}
	if err != nil {
		return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "failed to read csv header", err)
	}
	names := append([]string(nil), header...)
	cells := make([][]string, len(names))

	for row := 0; ; row++ {
		if row%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeTimeout, "csv read canceled", err)
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest,
				"malformed csv record", err, map[string]any{"row": row + 1})
		}
		for j, v := range rec {
			cells[j] = append(cells[j], v)
		}
	}

	cols := make([]table.Column, len(names))
	for j, name := range names {
		cols[j] = csvColumn(name, cells[j])
	}
	t, err := table.New(cols...)
	if err != nil {
		return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "invalid csv header", err)
	}
	return t, nil
}

func csvColumn(name string, values []string) table.Column {
	na := make([]bool, len(values))
	numeric := true
	for i, v := range values {
		if IsNAToken(v) {
			na[i] = true
			continue
		}
		if numeric {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				numeric = false
			}
		}
	}
	if numeric {
		return table.NumericFromStrings(name, values, na)
	}
	return table.NewText(name, values, na)
}
