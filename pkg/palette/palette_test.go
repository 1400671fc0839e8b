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
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

func TestColors(t *testing.T) {
	tests := []struct {
		name    string
		palette string
		first   string
		wantErr bool
	}{
		{"colorblind", "cb", "#000000", false},
		{"reverse", "rcb", "#CC79A7", false},
		{"blue yellow", "bly", "#E69F00", false},
		{"unknown", "xyz", "", true},
		{"case sensitive", "CB", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Colors(tt.palette)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Colors(%q) error = %v, wantErr %v", tt.palette, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != 8 {
				t.Fatalf("Colors(%q) len = %d, want 8", tt.palette, len(got))
			}
			if got[0] != tt.first {
				t.Errorf("Colors(%q)[0] = %s, want %s", tt.palette, got[0], tt.first)
			}
		})
	}
}

func TestReverseIsExact(t *testing.T) {
	cbColors, err := Colors("cb")
	require.NoError(t, err)
	rcb, err := Colors("rcb")
	require.NoError(t, err)
	for i := range cbColors {
		assert.Equal(t, cbColors[i], rcb[len(rcb)-1-i])
	}
}

func TestBlueYellowSameColors(t *testing.T) {
	cbColors, _ := Colors("cb")
	blyColors, _ := Colors("bly")
	assert.NotEqual(t, cbColors, blyColors)
	sort.Strings(cbColors)
	sort.Strings(blyColors)
	assert.Equal(t, cbColors, blyColors)
}

func TestColorsReturnsCopy(t *testing.T) {
	a, _ := Colors("cb")
	a[0] = "#FFFFFF"
	b, _ := Colors("cb")
	assert.Equal(t, "#000000", b[0])
}

func TestUnknownPaletteError(t *testing.T) {
	_, err := Colors("xyz")
	require.Error(t, err)
	assert.Equal(t, gsserrors.ErrCodeInvalidRequest, gsserrors.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "choose cb, rcb, or bly only"), err.Error())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"bly", "cb", "rcb"}, Names())
}
