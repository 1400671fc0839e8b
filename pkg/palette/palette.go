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

package palette

import (
	"fmt"
	"sort"
	"strings"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

const (
	// Colorblind is the Okabe-Ito palette, black first.
	Colorblind = "cb"
	// ReverseColorblind is Colorblind in reverse order.
	ReverseColorblind = "rcb"
	// BlueYellow is Colorblind reordered to lead with orange and blue.
	BlueYellow = "bly"
)

var cb = []string{
	"#000000", "#E69F00", "#56B4E9", "#009E73",
	"#F0E442", "#0072B2", "#D55E00", "#CC79A7",
}

var bly = []string{
	"#E69F00", "#0072B2", "#000000", "#56B4E9",
	"#009E73", "#F0E442", "#D55E00", "#CC79A7",
}

// Names returns the palette names in sorted order.
func Names() []string {
	names := []string{Colorblind, ReverseColorblind, BlueYellow}
	sort.Strings(names)
	return names
}

// Colors returns the hex colors of the named palette. Each call returns a
// fresh slice.
func Colors(name string) ([]string, error) {
	switch name {
	case Colorblind:
		return append([]string(nil), cb...), nil
	case ReverseColorblind:
		out := make([]string, len(cb))
		for i, c := range cb {
			out[len(cb)-1-i] = c
		}
		return out, nil
	case BlueYellow:
		return append([]string(nil), bly...), nil
	default:
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown palette %q: choose %s only", name,
				strings.Join([]string{Colorblind, ReverseColorblind, "or " + BlueYellow}, ", ")),
			map[string]any{"palette": name, "choices": []string{Colorblind, ReverseColorblind, BlueYellow}})
	}
}
