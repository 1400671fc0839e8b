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


package stata

import (
	"math"
	"strings"
)

// MissingBase is the label-space code of the system missing value ".".
// The extended value ".a" is MissingBase+1 and ".z" is MissingBase+26.
const MissingBase = 2147483621

// extendedCount is the number of extended missing values (.a through .z).
const extendedCount = 26

const (
	maxByte  = 100
	maxInt   = 32740
	maxLong  = 2147483620
	maxFloat = 1.701e38
	maxDbl   = 8.988e307

	floatMissingBits  uint32 = 0x7f000000
	doubleMissingBits uint64 = 0x7fe0000000000000
)

// MissingCode returns the label-space code for missing value k, where 0 is
// "." and 1 through 26 are ".a" through ".z".
func MissingCode(k int) float64 {
	return float64(MissingBase + k)
}

// MissingTag returns the Stata notation for a label-space missing code.
func MissingTag(code float64) (string, bool) {
	k := int(code) - MissingBase
	if code != math.Trunc(code) || k < 0 || k > extendedCount {
		return "", false
	}
	if k == 0 {
		return ".", true
	}
	return "." + string(rune('a'+k-1)), true
}

// ParseMissingTag is the inverse of MissingTag.
func ParseMissingTag(tag string) (float64, bool) {
	if tag == "." {
		return MissingCode(0), true
	}
	if len(tag) != 2 || !strings.HasPrefix(tag, ".") || tag[1] < 'a' || tag[1] > 'z' {
		return 0, false
	}
	return MissingCode(int(tag[1]-'a') + 1), true
}

// extendedCodes lists the codes of .a through .z.
func extendedCodes() []float64 {
	out := make([]float64, extendedCount)
	for k := range out {
		out[k] = MissingCode(k + 1)
	}
	return out
}

// missingIndex returns k for a missing value of the given storage type, or
// -1 when v is a regular value. Values below the valid range are treated as
// system missing.
func missingIndex(typ int, v float64, bits uint64) int {
	var k int
	switch typ {
	case typeByte:
		if v >= -127 && v <= maxByte {
			return -1
		}
		k = int(v) - (maxByte + 1)
	case typeInt:
		if v >= -32767 && v <= maxInt {
			return -1
		}
		k = int(v) - (maxInt + 1)
	case typeLong:
		if v >= -2147483647 && v <= maxLong {
			return -1
		}
		k = int(v) - (maxLong + 1)
	case typeFloat:
		if v >= -maxFloat && v <= maxFloat {
			return -1
		}
		k = int((uint32(bits) - floatMissingBits) >> 11)
	case typeDouble:
		if v >= -maxDbl && v <= maxDbl {
			return -1
		}
		k = int((bits - doubleMissingBits) >> 40)
	default:
		return -1
	}
	if k < 0 || k > extendedCount {
		return 0
	}
	return k
}
