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

package serializer

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	NumericColumns []string `json:"numericColumns" yaml:"numericColumns"`
	YoungAge       float64  `json:"youngAge" yaml:"youngAge"`
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"codebook.json", FormatJSON},
		{"recode.yaml", FormatYAML},
		{"RECODE.YML", FormatYAML},
		{"out.txt", FormatTable},
		{"out.table", FormatTable},
		{"data.dta", FormatJSON},
		{"", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewReader(Format("xml"), strings.NewReader(""))
	assert.Error(t, err)

	r, err := NewReader(FormatJSON, strings.NewReader(`{"youngAge": 26}`))
	require.NoError(t, err)
	var cfg testConfig
	require.NoError(t, r.Deserialize(&cfg))
	assert.Equal(t, float64(26), cfg.YoungAge)
	assert.NoError(t, r.Close())
}

func TestReader_DeserializeYAML(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("numericColumns: [wtssall, formwt]\nyoungAge: 30\n"))
	require.NoError(t, err)

	var cfg testConfig
	require.NoError(t, r.Deserialize(&cfg))
	assert.Equal(t, []string{"wtssall", "formwt"}, cfg.NumericColumns)
	assert.Equal(t, float64(30), cfg.YoungAge)
}

func TestReader_DeserializeErrors(t *testing.T) {
	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&testConfig{}))
	assert.NoError(t, nilReader.Close())

	r, err := NewReader(FormatJSON, nil)
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&testConfig{}))

	r, err = NewReader(FormatJSON, strings.NewReader("{not json"))
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&testConfig{}))
}

func TestNewFileReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recode.yaml")
	require.NoError(t, os.WriteFile(path, []byte("youngAge: 21\n"), 0o600))

	r, err := NewFileReaderAuto(path)
	require.NoError(t, err)
	var cfg testConfig
	require.NoError(t, r.Deserialize(&cfg))
	assert.Equal(t, float64(21), cfg.YoungAge)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = NewFileReader(FormatYAML, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = NewFileReader(FormatTable, path)
	assert.Error(t, err)
}

func TestNewFileReader_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numericColumns": ["compwt"]}`))
	}))
	defer server.Close()

	r, err := NewFileReader(FormatJSON, server.URL+"/recode.json")
	require.NoError(t, err)
	temp := r.temp
	require.NotEmpty(t, temp)

	var cfg testConfig
	require.NoError(t, r.Deserialize(&cfg))
	assert.Equal(t, []string{"compwt"}, cfg.NumericColumns)

	require.NoError(t, r.Close())
	_, statErr := os.Stat(temp)
	assert.True(t, os.IsNotExist(statErr), "temporary download removed")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recode.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"youngAge": 26, "numericColumns": ["oversamp"]}`), 0o600))

	cfg, err := FromFile[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, float64(26), cfg.YoungAge)
	assert.Equal(t, []string{"oversamp"}, cfg.NumericColumns)

	_, err = FromFile[testConfig](filepath.Join(dir, "nope.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("youngAge: [1"), 0o600))
	_, err = FromFile[testConfig](bad)
	assert.Error(t, err)
}
