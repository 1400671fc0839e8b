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


// Package stata reads Stata dta files (releases 117, 118 and 119) into a
// table.Table.
//
// Numeric variables that carry a value-label table become table.Labelled
// columns sharing one LabelSet per label table; the remaining numeric
// variables become table.Numeric and string variables (str1-str2045 and
// strL) become table.Text.
//
// Stata stores 27 missing values per numeric type: the system missing value
// "." and the extended values ".a" through ".z". System missing is always
// NA. In labelled columns the extended values are kept as the label-space
// codes MissingBase+1 through MissingBase+26 (the same codes Stata uses for
// them in value-label tables) and are designated missing in the column's
// LabelSet, so table.Labelled.Zap turns them into NA. In unlabelled columns
// every missing value is NA.
//
// Usage:
//
//	f, err := os.Open("GSS7222_R4.dta")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	t, err := stata.Read(ctx, f)
package stata
