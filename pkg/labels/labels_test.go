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

package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertAgeGroup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(25,34]", "Age 25-34"},
		{"[18,25]", "Age 18-25"},
		{"(65,89]", "Age 65+"},
		{"[20,30]", "Age 20-30"},
		{"(30,45]", "Age 30-45"},
		{"(70,89]", "Age 70+"},
		{"(18,89.5]", "Age 18-89.5"},
		{"(89,90]", "Age 89-90"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ConvertAgeGroup(tt.in); got != tt.want {
				t.Errorf("ConvertAgeGroup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertAgeGroups(t *testing.T) {
	got := ConvertAgeGroups([]string{"[18,25]", "(65,89]"})
	assert.Equal(t, []string{"Age 18-25", "Age 65+"}, got)
}

func TestCapwords(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		strict bool
		want   string
	}{
		{"strict mixed case", "the UNITED states", true, "The United States"},
		{"non-strict keeps interior", "ALREADY Capped", false, "ALREADY Capped"},
		{"non-strict lower", "strongly agree", false, "Strongly Agree"},
		{"strict apostrophe", "DON'T KNOW", true, "Don't Know"},
		{"strict hyphen stays lower", "SELF-EMPLOYED", true, "Self-employed"},
		{"empty", "", true, ""},
		{"double space preserved", "no  answer", true, "No  Answer"},
		{"unicode first rune", "éCOLE normale", true, "École Normale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Capwords(tt.in, tt.strict); got != tt.want {
				t.Errorf("Capwords(%q, %v) = %q, want %q", tt.in, tt.strict, got, tt.want)
			}
		})
	}
}

func TestCapwordsAll(t *testing.T) {
	in := []string{"IAP", "strongly AGREE", ""}
	got := CapwordsAll(in, true)
	assert.Equal(t, []string{"Iap", "Strongly Agree", ""}, got)
	assert.Equal(t, "IAP", in[0], "input is not modified")
	assert.Nil(t, CapwordsAll(nil, true))
}

func TestCapwordsMap(t *testing.T) {
	got := CapwordsMap(map[string]string{"a": "no ANSWER", "b": "dk"}, false)
	assert.Equal(t, map[string]string{"a": "No ANSWER", "b": "Dk"}, got)
	assert.Nil(t, CapwordsMap(nil, false))
}
