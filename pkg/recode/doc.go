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

// Package recode turns a raw GSS table into an analysis-ready table.
//
// A Pipeline is an explicit, ordered chain of pure steps. Each step takes a
// table.Table and returns a new one; nothing is modified in place, so the
// raw table can be reused after a run.
//
// Default builds the standard GSS chain:
//
//	 1. zap       missing-value codes become NA in every labelled column
//	 2. numeric   weight and design columns become plain numbers
//	 3. factor    categorical columns become factors using their labels
//	 4. capwords  factor levels are title-cased ("STRONGLY AGREE" -> "Strongly Agree")
//	 5. ageq      age quartile groups ("Age 18-34", ..., "Age 65+")
//	 6. agequint  age quintile groups
//	 7. year_f    survey year as a factor of observed years
//	 8. young     "Yes" when age < 26, "No" otherwise
//	 9. fefam     non-substantive answers become NA
//	10. fefam_d   four-point agreement collapsed to Agree/Disagree
//	11. fefam_n   Agree=0, Disagree=1
//	12. compwt    oversamp * formwt * wtssall
//	13. samplerc  sample frames 3/4 and 6/7 pooled
//
// Column names and level sets come from Config, which has GSS defaults and
// can be loaded from YAML or JSON with LoadConfig.
//
// A column named by a step but absent from the table stops the run with an
// error of code CONFIGURATION; no partial table is returned. Values that
// cannot be converted to numbers become NA.
//
// Usage:
//
//	p, err := recode.Default(recode.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	analysis, err := p.Run(ctx, raw)
package recode
