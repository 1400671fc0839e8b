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

package codebook

import (
	"embed"
	"fmt"
	"io"
	"log/slog"
	"sync"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
	"gopkg.in/yaml.v3"
)

const (
	// CumulativeName names the embedded cumulative codebook.
	CumulativeName = "cumulative"
	// PanelName names the embedded panel codebook.
	PanelName = "panel"
)

//go:embed data/*.yaml
var dataFS embed.FS

type embedded struct {
	file string
	once sync.Once
	cb   *Codebook
	err  error
}

var (
	cumulative = &embedded{file: "data/cumulative.yaml"}
	panel      = &embedded{file: "data/panel.yaml"}
)

func (e *embedded) get(name string) (*Codebook, error) {
	loaded := false
	e.once.Do(func() {
		loaded = true
		codebookCacheMisses.WithLabelValues(name).Inc()

		content, err := dataFS.ReadFile(e.file)
		if err != nil {
			e.err = gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to read embedded codebook", err)
			return
		}
		var doc Document
		if err := yaml.Unmarshal(content, &doc); err != nil {
			e.err = gsserrors.Wrap(gsserrors.ErrCodeInternal, fmt.Sprintf("failed to parse %s", e.file), err)
			return
		}
		e.cb, e.err = New(doc)
		if e.err == nil {
			slog.Debug("codebook loaded", "name", name, "variables", e.cb.Len())
		}
	})
	if !loaded {
		codebookCacheHits.WithLabelValues(name).Inc()
	}
	return e.cb, e.err
}

// Default returns the embedded cumulative codebook.
func Default() (*Codebook, error) {
	return cumulative.get(CumulativeName)
}

// Panel returns the embedded panel codebook.
func Panel() (*Codebook, error) {
	return panel.get(PanelName)
}

// ByName returns an embedded codebook by name.
func ByName(name string) (*Codebook, error) {
	switch name {
	case "", CumulativeName:
		return Default()
	case PanelName:
		return Panel()
	default:
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeNotFound,
			fmt.Sprintf("unknown codebook %q", name),
			map[string]any{"codebook": name, "choices": []string{CumulativeName, PanelName}})
	}
}

// Load reads a codebook document in the given format.
func Load(r io.Reader, format serializer.Format) (*Codebook, error) {
	reader, err := serializer.NewReader(format, r)
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "unsupported codebook format", err)
	}
	var doc Document
	if err := reader.Deserialize(&doc); err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "failed to decode codebook", err)
	}
	return New(doc)
}

// LoadFile reads a codebook from a local path or http(s) URL. The format
// follows the file extension.
func LoadFile(path string) (*Codebook, error) {
	doc, err := serializer.FromFile[Document](path)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest,
			"failed to load codebook", err, map[string]any{"path": path})
	}
	return New(*doc)
}
