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


// Package api wires the gssr read-only HTTP API onto pkg/server.
//
// # Endpoints
//
//	GET /v1/codebook/marginals?var=ID[,ID...][&codebook=cumulative|panel]
//	GET /v1/codebook/properties?var=ID[,ID...][&codebook=...]
//	GET /v1/codebook/search?q=TEXT[&codebook=...]
//	GET /v1/datasets
//	GET /v1/palettes/{name}
//
// var may be repeated. Unknown variables contribute no rows, so a query
// that matches nothing returns an empty array rather than an error. An
// unknown palette name is a 400 INVALID_REQUEST.
//
// System endpoints (/health, /ready, /metrics) come from pkg/server; the
// server reports ready once the embedded codebooks parse.
//
// # Usage
//
//	if err := api.Serve(); err != nil {
//	    log.Fatal(err)
//	}
package api
