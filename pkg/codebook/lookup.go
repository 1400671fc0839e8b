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
	"log/slog"
	"strconv"
	"strings"
)

// MarginalRow is one category of one matched variable.
type MarginalRow struct {
	ID      string  `json:"id" yaml:"id"`
	Code    string  `json:"code" yaml:"code"`
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"n" yaml:"n"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// MarginalRows is the flattened marginals table.
type MarginalRows []MarginalRow

// Header implements serializer.Tabular.
func (r MarginalRows) Header() []string {
	return []string{"ID", "CODE", "LABEL", "N", "PERCENT"}
}

// Rows implements serializer.Tabular.
func (r MarginalRows) Rows() [][]string {
	out := make([][]string, len(r))
	for i, m := range r {
		out[i] = []string{m.ID, m.Code, m.Label, strconv.Itoa(m.Count), strconv.FormatFloat(m.Percent, 'f', 1, 64)}
	}
	return out
}

// Properties holds the scalar attributes of a variable.
type Properties struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Question    string `json:"question,omitempty" yaml:"question,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`
	ValueLabels string `json:"value_labels,omitempty" yaml:"value_labels,omitempty"`
}

// PropertiesList is the result of a properties query.
type PropertiesList []Properties

// Header implements serializer.Tabular.
func (p PropertiesList) Header() []string {
	return []string{"ID", "DESCRIPTION", "QUESTION", "VALUE LABELS"}
}

// Rows implements serializer.Tabular.
func (p PropertiesList) Rows() [][]string {
	out := make([][]string, len(p))
	for i, v := range p {
		out[i] = []string{v.ID, v.Description, v.Question, v.ValueLabels}
	}
	return out
}

func propertiesOf(v Variable) Properties {
	return Properties{
		ID:          v.ID,
		Description: v.Description,
		Question:    v.Question,
		Notes:       v.Notes,
		ValueLabels: v.ValueLabels,
	}
}

// resolve returns cb, or the default codebook when cb is nil.
func resolve(cb *Codebook) *Codebook {
	if cb != nil {
		return cb
	}
	d, err := Default()
	if err != nil {
		slog.Error("default codebook unavailable", "error", err)
		return &Codebook{}
	}
	return d
}

// match returns the variables whose id is in ids, in codebook order.
// Matching is exact and case-sensitive.
func match(ids []string, cb *Codebook) []Variable {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Variable
	for _, v := range cb.variables {
		if _, ok := want[v.ID]; ok {
			out = append(out, v)
		}
	}
	return out
}

// GetMarginals returns the marginals of every matched variable, flattened
// into one row per category and tagged with the variable id. Rows follow
// codebook order, then category order. Unknown ids contribute nothing and a
// query without matches returns an empty, non-nil slice. A nil codebook
// means Default.
func GetMarginals(ids []string, cb *Codebook) MarginalRows {
	out := MarginalRows{}
	for _, v := range match(ids, resolve(cb)) {
		for _, m := range v.Marginals {
			out = append(out, MarginalRow{
				ID:      v.ID,
				Code:    m.Code,
				Label:   m.Label,
				Count:   m.Count,
				Percent: m.Percent,
			})
		}
	}
	return out
}

// GetProperties returns the scalar attributes of every matched variable in
// codebook order. Marginals are never included. A nil codebook means
// Default.
func GetProperties(ids []string, cb *Codebook) PropertiesList {
	out := PropertiesList{}
	for _, v := range match(ids, resolve(cb)) {
		out = append(out, propertiesOf(v))
	}
	return out
}

// Search returns the variables whose id or description contains pattern,
// ignoring case. An empty pattern matches nothing.
func Search(pattern string, cb *Codebook) PropertiesList {
	out := PropertiesList{}
	p := strings.ToLower(strings.TrimSpace(pattern))
	if p == "" {
		return out
	}
	for _, v := range resolve(cb).variables {
		if strings.Contains(strings.ToLower(v.ID), p) || strings.Contains(strings.ToLower(v.Description), p) {
			out = append(out, propertiesOf(v))
		}
	}
	return out
}
