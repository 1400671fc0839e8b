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


package dataset

import (
	"fmt"
	"slices"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// Dataset names.
const (
	All      = "gss_all"
	Sub      = "gss_sub"
	Panel06  = "gss_panel06_long"
	Panel08  = "gss_panel08_long"
	Panel10  = "gss_panel10_long"
	Dict     = "gss_dict"
	PanelDoc = "gss_panel_doc"
)

// Kind classifies a named dataset.
type Kind string

const (
	KindCrossSection Kind = "cross-section"
	KindPanel        Kind = "panel"
	KindCodebook     Kind = "codebook"
)

// Info describes a named dataset.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
	// Codebook names the embedded codebook documenting the dataset.
	Codebook string `json:"codebook,omitempty" yaml:"codebook,omitempty"`
	// DerivedFrom names the dataset a column subset is taken from when no
	// file of this name exists.
	DerivedFrom string `json:"derivedFrom,omitempty" yaml:"derivedFrom,omitempty"`
}

var registry = []Info{
	{Name: All, Kind: KindCrossSection, Codebook: "cumulative",
		Description: "GSS cumulative cross-sectional file, 1972-2022"},
	{Name: Sub, Kind: KindCrossSection, Codebook: "cumulative", DerivedFrom: All,
		Description: "Column subset of the cumulative file used for teaching and examples"},
	{Name: Panel06, Kind: KindPanel, Codebook: "panel",
		Description: "GSS 2006 panel cohort, waves 2006/2008/2010, long format"},
	{Name: Panel08, Kind: KindPanel, Codebook: "panel",
		Description: "GSS 2008 panel cohort, waves 2008/2010/2012, long format"},
	{Name: Panel10, Kind: KindPanel, Codebook: "panel",
		Description: "GSS 2010 panel cohort, waves 2010/2012/2014, long format"},
	{Name: Dict, Kind: KindCodebook, Codebook: "cumulative",
		Description: "Codebook of the cumulative file"},
	{Name: PanelDoc, Kind: KindCodebook, Codebook: "panel",
		Description: "Codebook of the panel files"},
}

// InfoList is a list of dataset descriptions.
type InfoList []Info

func (l InfoList) Header() []string { return []string{"NAME", "KIND", "CODEBOOK", "DESCRIPTION"} }

func (l InfoList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, i := range l {
		rows = append(rows, []string{i.Name, string(i.Kind), i.Codebook, i.Description})
	}
	return rows
}

// Registry returns every named dataset in a stable order.
func Registry() InfoList {
	return slices.Clone(registry)
}

// Names returns the names of every dataset of the given kinds, or of all
// datasets when no kind is given.
func Names(kinds ...Kind) []string {
	var out []string
	for _, i := range registry {
		if len(kinds) == 0 || slices.Contains(kinds, i.Kind) {
			out = append(out, i.Name)
		}
	}
	return out
}

// Lookup returns the description of a named dataset.
func Lookup(name string) (Info, error) {
	for _, i := range registry {
		if i.Name == name {
			return i, nil
		}
	}
	return Info{}, gsserrors.NewWithContext(gsserrors.ErrCodeNotFound,
		fmt.Sprintf("unknown dataset %q", name),
		map[string]any{"dataset": name, "choices": Names()})
}
