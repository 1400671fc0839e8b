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

// Package codebook answers questions about GSS variables: what a variable
// means, how it was asked, and how its responses are distributed.
//
// Two codebooks are embedded in the binary and parsed on first use:
//
//   - Default: the cumulative data file codebook (lower-case ids, e.g. "fefam")
//   - Panel: the 2006-2010 panel codebook (upper-case ids with a wave
//     suffix, e.g. "FEFAM_1")
//
// Lookups never fail on unknown ids. A query that matches nothing returns
// an empty result:
//
//	rows := codebook.GetMarginals([]string{"fefam", "sex"}, nil) // nil means Default
//	props := codebook.GetProperties([]string{"FEFAM_1"}, panel)
//
// External codebooks in the same JSON or YAML layout can be loaded with
// Load or LoadFile. Variable ids must be unique within a codebook.
package codebook
