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

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Reader handles deserialization of structured data from JSON or YAML.
// Close must be called when the Reader was created by NewFileReader.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
	temp   string
}

// NewReader creates a Reader over input. If input implements io.Closer it
// is closed by Reader.Close.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	r := &Reader{format: format, input: input}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// NewFileReader creates a Reader for a local path or an http(s) URL.
// Remote content is downloaded to a temporary file that Close removes.
func NewFileReader(format Format, filePath string) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	path := filePath
	var temp string
	if isURL(filePath) {
		temp = filepath.Join(os.TempDir(), fmt.Sprintf("gssr-%d.tmp", time.Now().UnixNano()))
		if err := NewHttpReader().DownloadWithContext(context.Background(), filePath, temp); err != nil {
			return nil, fmt.Errorf("failed to download remote file: %w", err)
		}
		path = temp
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &Reader{format: format, input: file, closer: file, temp: temp}, nil
}

// NewFileReaderAuto is NewFileReader with the format taken from the extension.
func NewFileReaderAuto(filePath string) (*Reader, error) {
	return NewFileReader(FormatFromPath(filePath), filePath)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Deserialize decodes the input into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the underlying file and removes any downloaded copy.
// Safe to call more than once and on a nil Reader.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	var err error
	if r.closer != nil {
		err = r.closer.Close()
		r.closer = nil
	}
	if r.temp != "" {
		if rmErr := os.Remove(r.temp); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("failed to remove temporary download", "path", r.temp, "error", rmErr)
		}
		r.temp = ""
	}
	return err
}

// FromFile reads and deserializes a local file or http(s) URL into T.
// The format is taken from the extension.
func FromFile[T any](path string) (*T, error) {
	fileFormat := FormatFromPath(path)
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	ser, err := NewFileReader(fileFormat, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %q: %w", path, err)
	}
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "error", closeErr)
		}
	}()

	var v T
	if err := ser.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}
	return &v, nil
}
