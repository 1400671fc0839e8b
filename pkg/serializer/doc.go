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

// Package serializer encodes and decodes gssr results in JSON, YAML and a
// human-readable table format.
//
// # Formats
//
// JSON and YAML are used for API responses, machine consumption and
// configuration files. The table format is write-only and is meant for
// terminals: values implementing Tabular render as aligned columns, any
// other value is flattened into FIELD/VALUE pairs.
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, outputPath)
//	defer w.Close()
//	if err := w.Serialize(ctx, rows); err != nil {
//	    return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, rows)
//
// # Reading
//
// Local paths and http(s) URLs are supported; the format follows the file
// extension:
//
//	cfg, err := serializer.FromFile[recode.Config]("recode.yaml")
//
// Format detection by extension:
//   - .json: JSON
//   - .yaml, .yml: YAML
//   - .table, .txt: Table
//   - anything else: JSON
package serializer
