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
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gssr-go/gssr/pkg/codebook"
	"github.com/gssr-go/gssr/pkg/dataset"
	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/palette"
	"github.com/gssr-go/gssr/pkg/serializer"
	"github.com/gssr-go/gssr/pkg/server"
)

// Handlers serves the read-only gssr API.
type Handlers struct {
	loader *dataset.Loader
}

// NewHandlers returns handlers that report dataset status from loader.
func NewHandlers(loader *dataset.Loader) *Handlers {
	return &Handlers{loader: loader}
}

// Routes returns the API routes keyed by ServeMux pattern.
func (h *Handlers) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /v1/codebook/marginals":  withTimeout(h.handleMarginals, defaults.CodebookHandlerTimeout),
		"GET /v1/codebook/properties": withTimeout(h.handleProperties, defaults.CodebookHandlerTimeout),
		"GET /v1/codebook/search":     withTimeout(h.handleSearch, defaults.CodebookHandlerTimeout),
		"GET /v1/datasets":            withTimeout(h.handleDatasets, defaults.DatasetHandlerTimeout),
		"GET /v1/palettes/{name}":     h.handlePalette,
	}
}

func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return http.TimeoutHandler(next, d, `{"code":"TIMEOUT","message":"request timed out"}`).ServeHTTP
}

// variables collects ids from repeated and comma-separated var parameters.
func variables(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["var"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// codebookFor resolves the optional codebook parameter.
func codebookFor(r *http.Request) (*codebook.Codebook, error) {
	return codebook.ByName(r.URL.Query().Get("codebook"))
}

func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(defaults.CodebookCacheTTL.Seconds())))
}

// handleMarginals handles GET /v1/codebook/marginals
func (h *Handlers) handleMarginals(w http.ResponseWriter, r *http.Request) {
	ids := variables(r)
	if len(ids) == 0 {
		server.WriteErrorFromErr(w, r, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "at least one var is required"))
		return
	}
	cb, err := codebookFor(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err)
		return
	}

	rows := codebook.GetMarginals(ids, cb)
	slog.Debug("marginals", "vars", ids, "codebook", cb.Name(), "rows", len(rows))

	setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, rows)
}

// handleProperties handles GET /v1/codebook/properties
func (h *Handlers) handleProperties(w http.ResponseWriter, r *http.Request) {
	ids := variables(r)
	if len(ids) == 0 {
		server.WriteErrorFromErr(w, r, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "at least one var is required"))
		return
	}
	cb, err := codebookFor(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err)
		return
	}

	setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, codebook.GetProperties(ids, cb))
}

// handleSearch handles GET /v1/codebook/search
func (h *Handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		server.WriteErrorFromErr(w, r, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "q is required"))
		return
	}
	cb, err := codebookFor(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err)
		return
	}

	setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, codebook.Search(q, cb))
}

// handleDatasets handles GET /v1/datasets
func (h *Handlers) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		serializer.RespondJSON(w, http.StatusOK, dataset.Registry())
		return
	}
	serializer.RespondJSON(w, http.StatusOK, h.loader.Status())
}

// PaletteResponse is the body of GET /v1/palettes/{name}.
type PaletteResponse struct {
	Name   string   `json:"name" yaml:"name"`
	Colors []string `json:"colors" yaml:"colors"`
}

// handlePalette handles GET /v1/palettes/{name}
func (h *Handlers) handlePalette(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	colors, err := palette.Colors(name)
	if err != nil {
		server.WriteErrorFromErr(w, r, err)
		return
	}
	setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, PaletteResponse{Name: name, Colors: colors})
}
