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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gssr-go/gssr/pkg/codebook"
	"github.com/gssr-go/gssr/pkg/dataset"
	"github.com/gssr-go/gssr/pkg/palette"
	"github.com/gssr-go/gssr/pkg/server"
)

func newTestHandler(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewServer(dataset.NewLoader(dir))
	return s.Handler(), dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestMarginals(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/codebook/marginals?var=sex")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=")

	rows := decode[codebook.MarginalRows](t, rec)
	want := codebook.GetMarginals([]string{"sex"}, nil)
	assert.Equal(t, want, rows)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Equal(t, "sex", r.ID)
	}
}

func TestMarginalsUnknownVariableIsEmptyArray(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/codebook/marginals?var=no_such_variable")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMarginalsPanelCodebook(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/codebook/marginals?var=SEX_1&codebook=panel")
	require.Equal(t, http.StatusOK, rec.Code)

	panel, err := codebook.Panel()
	require.NoError(t, err)
	assert.Equal(t, codebook.GetMarginals([]string{"SEX_1"}, panel), decode[codebook.MarginalRows](t, rec))
}

func TestProperties(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/codebook/properties?var=sex,race&var=sex")
	require.Equal(t, http.StatusOK, rec.Code)

	props := decode[codebook.PropertiesList](t, rec)
	require.Len(t, props, 2)
	assert.Equal(t, "sex", props[0].ID)
	assert.Equal(t, "race", props[1].ID)
	assert.NotContains(t, rec.Body.String(), "marginals")
}

func TestSearch(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/codebook/search?q=RACE")
	require.Equal(t, http.StatusOK, rec.Code)
	props := decode[codebook.PropertiesList](t, rec)
	ids := make([]string, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}
	assert.Contains(t, ids, "race")
}

func TestCodebookRequestErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"marginals without var", "/v1/codebook/marginals", http.StatusBadRequest, "INVALID_REQUEST"},
		{"properties blank var", "/v1/codebook/properties?var=%20", http.StatusBadRequest, "INVALID_REQUEST"},
		{"search without q", "/v1/codebook/search", http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown codebook", "/v1/codebook/marginals?var=sex&codebook=nope", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			resp := decode[server.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestPalettes(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, name := range palette.Names() {
		t.Run(name, func(t *testing.T) {
			rec := get(t, h, "/v1/palettes/"+name)
			require.Equal(t, http.StatusOK, rec.Code)

			want, err := palette.Colors(name)
			require.NoError(t, err)
			resp := decode[PaletteResponse](t, rec)
			assert.Equal(t, name, resp.Name)
			assert.Equal(t, want, resp.Colors)
		})
	}
}

func TestPaletteInvalidName(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/v1/palettes/rainbow")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[server.ErrorResponse](t, rec)
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.Contains(t, resp.Message, "rainbow")
}

func TestDatasets(t *testing.T) {
	h, dir := newTestHandler(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gss_all.csv"), []byte("year,id\n2022,1\n"), 0o600))

	rec := get(t, h, "/v1/datasets")
	require.Equal(t, http.StatusOK, rec.Code)

	statuses := decode[[]map[string]any](t, rec)
	byName := map[string]map[string]any{}
	for _, s := range statuses {
		byName[s["name"].(string)] = s
	}
	require.Contains(t, byName, dataset.All)
	assert.Equal(t, filepath.Join(dir, "gss_all.csv"), byName[dataset.All]["file"])
	assert.Equal(t, false, byName[dataset.All]["loaded"])
	assert.NotContains(t, byName, dataset.Dict)
}

func TestDatasetsWithoutLoader(t *testing.T) {
	h := server.New(server.WithHandler(NewHandlers(nil).Routes())).Handler()

	rec := get(t, h, "/v1/datasets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), len(dataset.Registry()))
}

func TestReadyAfterCodebooksParse(t *testing.T) {
	s := NewServer(dataset.NewLoader(t.TempDir()))
	s.SetReady(true)

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsBrokenCodebook(t *testing.T) {
	orig := embeddedCodebooks[codebook.PanelName]
	t.Cleanup(func() { embeddedCodebooks[codebook.PanelName] = orig })
	embeddedCodebooks[codebook.PanelName] = func() (*codebook.Codebook, error) {
		return nil, errors.New("yaml: line 3: mapping values are not allowed")
	}

	s := NewServer(dataset.NewLoader(t.TempDir()))
	s.SetReady(true)

	rec := get(t, s.Handler(), "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[server.HealthResponse](t, rec)
	assert.Equal(t, "not_ready", body.Status)
	assert.Contains(t, body.Reason, "embedded panel codebook unavailable")
	assert.Contains(t, body.Reason, "mapping values are not allowed")
}
