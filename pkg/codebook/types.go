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
	"fmt"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// Marginal is one category of a variable with its observed frequency.
type Marginal struct {
	Code    string  `json:"code" yaml:"code"`
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"n" yaml:"n"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Variable is one codebook entry.
type Variable struct {
	ID          string     `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	Question    string     `json:"question,omitempty" yaml:"question,omitempty"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	ValueLabels string     `json:"value_labels,omitempty" yaml:"value_labels,omitempty"`
	Marginals   []Marginal `json:"marginals,omitempty" yaml:"marginals,omitempty"`
}

// Document is the serialized form of a codebook.
type Document struct {
	Name      string     `json:"name" yaml:"name"`
	Dataset   string     `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Variables []Variable `json:"variables" yaml:"variables"`
}

// Codebook is an immutable, ordered set of variables indexed by id.
type Codebook struct {
	name      string
	dataset   string
	variables []Variable
	index     map[string]int
}

// New builds a Codebook from a document. Duplicate or empty ids are
// rejected.
func New(doc Document) (*Codebook, error) {
	cb := &Codebook{
		name:      doc.Name,
		dataset:   doc.Dataset,
		variables: make([]Variable, 0, len(doc.Variables)),
		index:     make(map[string]int, len(doc.Variables)),
	}
	for i, v := range doc.Variables {
		if v.ID == "" {
			return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("variable %d has no id", i),
				map[string]any{"codebook": doc.Name})
		}
		if _, dup := cb.index[v.ID]; dup {
			return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("duplicate variable id %q", v.ID),
				map[string]any{"codebook": doc.Name, "id": v.ID})
		}
		cb.index[v.ID] = len(cb.variables)
		cb.variables = append(cb.variables, v)
	}
	return cb, nil
}

// Name returns the codebook name.
func (cb *Codebook) Name() string { return cb.name }

// Dataset returns the name of the dataset the codebook documents.
func (cb *Codebook) Dataset() string { return cb.dataset }

// Len returns the number of variables.
func (cb *Codebook) Len() int { return len(cb.variables) }

// IDs returns every variable id in codebook order.
func (cb *Codebook) IDs() []string {
	out := make([]string, len(cb.variables))
	for i, v := range cb.variables {
		out[i] = v.ID
	}
	return out
}

// Lookup returns the variable with the given id.
func (cb *Codebook) Lookup(id string) (Variable, bool) {
	i, ok := cb.index[id]
	if !ok {
		return Variable{}, false
	}
	return cb.variables[i], true
}

// Document returns the serializable form of the codebook.
func (cb *Codebook) Document() Document {
	return Document{
		Name:      cb.name,
		Dataset:   cb.dataset,
		Variables: append([]Variable(nil), cb.variables...),
	}
}
