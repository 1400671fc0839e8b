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

import (
	"encoding/csv"
	"fmt"
	"io"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// WriteCSV writes t with a header row. Labelled and factor cells are
// written as their labels and missing cells as empty strings, which
// dataset.ReadCSV reads back as missing.
func WriteCSV(w io.Writer, t table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to write csv header", err)
	}
	cols := t.Columns()
	rec := make([]string, len(cols))
	for i := 0; i < t.NRow(); i++ {
		for j, c := range cols {
			rec[j] = c.String(i)
		}
		if err := cw.Write(rec); err != nil {
			return gsserrors.Wrap(gsserrors.ErrCodeInternal, fmt.Sprintf("failed to write csv row %d", i+1), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to flush csv", err)
	}
	return nil
}
