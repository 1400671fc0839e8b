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

package defaults

import "time"

const (
	// DatasetLoadTimeout bounds reading one dataset file from disk.
	// The cumulative file is large; loaders respect shorter parent deadlines.
	DatasetLoadTimeout = 5 * time.Minute

	// RecodeTimeout bounds a full run of the recoding pipeline.
	RecodeTimeout = 2 * time.Minute

	// EstimateTimeout bounds a single call into an external estimator.
	EstimateTimeout = 5 * time.Minute
)

const (
	// CodebookHandlerTimeout is the timeout for codebook lookup requests.
	CodebookHandlerTimeout = 10 * time.Second

	// DatasetHandlerTimeout is the timeout for dataset listing requests.
	DatasetHandlerTimeout = 10 * time.Second

	// CodebookCacheTTL is the cache duration advertised for codebook responses.
	// Embedded codebooks never change within a release.
	CodebookCacheTTL = 1 * time.Hour
)

const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

const (
	// OCIPushTimeout bounds pushing a dataset artifact to a registry.
	OCIPushTimeout = 10 * time.Minute

	// OCIPullTimeout bounds pulling a dataset artifact from a registry.
	OCIPullTimeout = 10 * time.Minute
)

const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	// Registry transfers use the OCI timeouts instead.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)
