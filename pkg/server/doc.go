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


// Package server provides the HTTP server that hosts the gssr API.
//
// API handlers are registered by route pattern and run behind a fixed
// middleware chain:
//
//	metrics -> version -> request id -> panic recovery -> rate limit -> logging
//
// System endpoints bypass the chain:
//
//	GET /health   liveness
//	GET /ready    readiness, optionally gated by WithReadyCheck
//	GET /metrics  Prometheus exposition
//
// # Usage
//
//	s := server.New(
//	    server.WithName("gssrd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "GET /v1/palettes/{name}": handlePalette,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run stops on SIGINT or SIGTERM and drains in-flight requests for up to
// the shutdown timeout.
//
// # Errors
//
// Handlers report failures with WriteErrorFromErr, which maps the
// structured error code to an HTTP status (HTTPStatusFromCode) and writes
// an ErrorResponse carrying the request id.
//
// # Configuration
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the defaults. Timeouts
// default to the values in pkg/defaults.
package server
