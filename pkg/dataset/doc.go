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


// Package dataset names the GSS data files and loads them on demand.
//
// The registry lists the cumulative file (gss_all), its teaching subset
// (gss_sub), the three long-format panel files and the two codebooks.
// A Loader reads data tables from a directory (GSSR_DATA_DIR, or a gssr
// directory under the user cache directory) the first time each is asked
// for and keeps it in memory afterwards. Files may be Stata (.dta) or CSV.
//
// gss_sub is read from its own file when one exists and is otherwise taken
// as a column subset of gss_all. Panel tables are checked with ValidatePanel
// before they are returned.
//
// Usage:
//
//	l := dataset.NewLoader("")
//	all, err := l.Load(ctx, dataset.All)
//	if err != nil {
//	    return err
//	}
//
//	panels, err := l.LoadMany(ctx, dataset.Panel06, dataset.Panel08, dataset.Panel10)
package dataset
