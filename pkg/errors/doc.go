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

// Package errors provides structured error types for programmatic error
// handling across gssr.
//
// A recoding step that references a column the table does not have fails
// with ErrCodeConfiguration:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeConfiguration,
//	    "column not found",
//	    map[string]any{
//	        "step":   "compwt",
//	        "column": "oversamp",
//	    },
//	)
//
// Callers that need to branch on the classification use CodeOf:
//
//	if errors.CodeOf(err) == errors.ErrCodeNotFound { ... }
package errors
