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


// Package cli implements the gssr command-line interface.
//
// # Commands
//
// datasets - List known datasets and the file backing each:
//
//	gssr datasets --data-dir ./data
//
// marginals, properties, search - Query a codebook:
//
//	gssr marginals race sex
//	gssr properties --codebook panel --var SEX_1,FEFAM_1
//	gssr search abortion --format json
//
// The --codebook flag takes an embedded codebook name (cumulative, panel) or
// a path or URL to a codebook document.
//
// colors - Print a named color palette (cb, rcb, bly):
//
//	gssr colors rcb
//
// recode - Run the standard recoding pipeline and write the table:
//
//	gssr recode --columns year,ageq,fefam_d --table-format csv
//	gssr recode --output gss_recoded.parquet
//
// design - Build the survey design and summarize strata and sampling units:
//
//	gssr design --lonely-psu adjust --require fefam_n
//
// pull, push - Move data files through an OCI registry or a local image layout:
//
//	gssr push oci://ghcr.io/gssr/gss:2022
//	gssr pull --data-dir ./data oci://ghcr.io/gssr/gss:2022
//
// # Global Flags
//
//	--data-dir, -d  Directory holding GSS data files (default: user cache dir/gssr)
//	--log-level     Logging verbosity (debug, info, warn, error)
//
// Result commands also take --output/-o and --format/-t (yaml, json, table).
//
// # Environment Variables
//
//	GSSR_DATA_DIR  Default data directory
//	GSSR_FORMAT    Default result format
//	LOG_LEVEL      Logging verbosity
//
// # Exit Codes
//
//	0  Success
//	1  Any error, printed to stderr
package cli
