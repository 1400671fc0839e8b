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


package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
)

// RootResponse describes the service at "/".
type RootResponse struct {
	Name      string   `json:"name" yaml:"name"`
	Version   string   `json:"version" yaml:"version"`
	Ready     bool     `json:"ready" yaml:"ready"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Routes    []string `json:"routes" yaml:"routes"`
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	for pattern, h := range s.config.Handlers {
		mux.HandleFunc(pattern, s.withMiddleware(h))
	}

	return mux
}

// routes returns the sorted route patterns the server exposes.
func (s *Server) routes() []string {
	out := []string{"GET /health", "GET /ready", "GET /metrics"}
	for pattern := range s.config.Handlers {
		out = append(out, pattern)
	}
	slices.Sort(out)
	return out
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, gsserrors.ErrCodeNotFound,
			"route not found", false, map[string]any{"path": r.URL.Path})
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, r, http.StatusMethodNotAllowed, gsserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, nil)
		return
	}

	slog.Debug("handling default route",
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, RootResponse{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     ready,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	})
}
