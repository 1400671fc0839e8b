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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TopCodedAge is the largest age recorded; it stands for "this age or older".
const TopCodedAge = "89"

// ConvertAgeGroup rewrites an interval label such as "(25,34]" or "[18,25]"
// as "Age 25-34". An upper bound of TopCodedAge becomes "+".
func ConvertAgeGroup(label string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '[', ']':
			return -1
		}
		return r
	}, label)
	s = strings.Replace(s, ",", "-", 1)
	if suffix := "-" + TopCodedAge; strings.HasSuffix(s, suffix) {
		s = strings.TrimSuffix(s, suffix) + "+"
	}
	return "Age " + s
}

// ConvertAgeGroups applies ConvertAgeGroup to every label.
func ConvertAgeGroups(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = ConvertAgeGroup(l)
	}
	return out
}

// Capwords upper-cases the first character of each word in s. Words are
// separated by single spaces; runs of spaces are preserved. When strict is
// true the remaining characters of each word are lower-cased, otherwise they
// are left as they are.
func Capwords(s string, strict bool) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		rest := w[size:]
		if strict {
			rest = lower.String(rest)
		}
		words[i] = upper.String(string(r)) + rest
	}
	return strings.Join(words, " ")
}

// CapwordsAll applies Capwords to every element, keeping positions.
func CapwordsAll(in []string, strict bool) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Capwords(s, strict)
	}
	return out
}

// CapwordsMap applies Capwords to every value, keeping keys.
func CapwordsMap(in map[string]string, strict bool) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, s := range in {
		out[k] = Capwords(s, strict)
	}
	return out
}
