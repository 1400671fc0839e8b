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


package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gssr-go/gssr/pkg/codebook"
	"github.com/gssr-go/gssr/pkg/dataset"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/logging"
	"github.com/gssr-go/gssr/pkg/server"
)

const (
	name           = "gssrd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/gssr-go/gssr/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown. Datasets are
// reported from the directory named by GSSR_DATA_DIR, or the user cache
// directory.
func Serve() error {
	return ServeWithDataDir(context.Background(), dataset.DefaultDir())
}

// ServeWithDataDir starts the API server over dataDir and blocks until ctx
// is done or the process is signalled.
func ServeWithDataDir(ctx context.Context, dataDir string) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"dataDir", dataDir,
	)

	s := NewServer(dataset.NewLoader(dataDir))
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// NewServer builds the server with the API routes over loader. The server
// is ready once the embedded codebooks parse.
func NewServer(loader *dataset.Loader, opts ...server.Option) *server.Server {
	base := []server.Option{
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(NewHandlers(loader).Routes()),
		server.WithReadyCheck(codebooksReady),
	}
	return server.New(append(base, opts...)...)
}

// embeddedCodebooks are the loaders the readiness check runs. Codebook
// queries fall back to an empty codebook when these fail, so /ready is where
// a broken embed shows up.
var embeddedCodebooks = map[string]func() (*codebook.Codebook, error){
	codebook.CumulativeName: codebook.Default,
	codebook.PanelName:      codebook.Panel,
}

func codebooksReady() error {
	for _, n := range []string{codebook.CumulativeName, codebook.PanelName} {
		if _, err := embeddedCodebooks[n](); err != nil {
			return gsserrors.WrapWithContext(gsserrors.ErrCodeUnavailable,
				fmt.Sprintf("embedded %s codebook unavailable", n), err,
				map[string]any{"codebook": n})
		}
	}
	return nil
}
