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


// Package survey prepares a survey-design specification for an external
// estimator.
//
// NewDesign keeps the complete cases of the design and analysis columns,
// crosses the strata columns into one synthetic stratum (for the GSS,
// year by vstrat, with levels such as "2018.1901") and binds the PSU and
// weight columns. Estimation itself is delegated to an Estimator supplied
// by the caller.
//
// The treatment of strata with a single sampling unit is a process-wide
// option. It has no default: Design.Estimate fails until SetLonelyPSU has
// been called.
//
// Usage:
//
//	if err := survey.SetLonelyPSU(survey.LonelyAdjust); err != nil {
//	    return err
//	}
//	spec := survey.DefaultDesignSpec()
//	spec.MinYear = 1975
//	d, err := survey.NewDesign(analysis, spec)
//	if err != nil {
//	    return err
//	}
//	res, err := d.Estimate(ctx, est, survey.Query{Variable: "fefam_n", By: []string{"year", "young"}})
package survey
