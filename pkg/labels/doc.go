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

// Package labels provides the string transforms applied to category labels
// when building analysis tables.
//
// ConvertAgeGroup turns interval labels produced by binning ("(25,34]") into
// display labels ("Age 25-34"). The top-coded age 89 renders as an open
// upper bound ("Age 65+").
//
// Capwords upper-cases the first character of every space-separated word.
// In strict mode the rest of each word is lower-cased:
//
//	labels.Capwords("the UNITED states", true)  // "The United States"
//	labels.Capwords("ALREADY Capped", false)    // "ALREADY Capped"
//
// CapwordsAll and CapwordsMap apply the same transform element-wise while
// preserving position or key.
package labels
