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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
	"github.com/gssr-go/gssr/pkg/table"
)

// Format is a table output format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTable   Format = "table"
)

// Formats returns every supported format name.
func Formats() []string {
	return []string{
		string(FormatCSV),
		string(FormatParquet),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if string(f) == known {
			return f, nil
		}
	}
	return "", gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown table format %q", s),
		map[string]any{"choices": Formats()})
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".parquet", ".pq":
		return FormatParquet
	}
	return Format(serializer.FormatFromPath(path))
}

// Write writes t to w in format f. JSON and YAML write Records; table
// writes aligned columns.
func Write(ctx context.Context, w io.Writer, t table.Table, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatParquet:
		return WriteParquet(w, t)
	case FormatJSON, FormatYAML:
		return serializer.NewWriter(serializer.Format(f), w).Serialize(ctx, Records(t))
	case FormatTable:
		return serializer.NewWriter(serializer.FormatTable, w).Serialize(ctx, NewView(t, 0))
	default:
		return gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown table format %q", f),
			map[string]any{"choices": Formats()})
	}
}

// WriteFile writes t to path. An empty format is taken from the extension.
func WriteFile(ctx context.Context, path string, t table.Table, f Format) (err error) {
	if f == "" {
		f = FormatFromPath(path)
	}
	fh, err := os.Create(path)
	if err != nil {
		return gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest, "failed to create output file", err,
			map[string]any{"path": path})
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to close output file", cerr)
		}
	}()

	if err = Write(ctx, fh, t, f); err != nil {
		return err
	}
	slog.Debug("table written", "path", path, "format", f, "rows", t.NRow(), "columns", t.NCol())
	return nil
}
