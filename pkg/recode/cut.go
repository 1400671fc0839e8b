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

package recode

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

var (
	// QuartileProbs are the probabilities of the quartile breaks.
	QuartileProbs = []float64{0, 0.25, 0.5, 0.75, 1}
	// QuintileProbs are the probabilities of the quintile breaks.
	QuintileProbs = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
)

// Quantile returns the p-th sample quantile of sorted values using linear
// interpolation between order statistics (Hyndman and Fan type 7).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Breaks returns the quantiles of values at probs with duplicates removed,
// in ascending order.
func Breaks(values []float64, probs []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out := make([]float64, 0, len(probs))
	for _, p := range probs {
		q := Quantile(sorted, p)
		if len(out) > 0 && out[len(out)-1] == q {
			continue
		}
		out = append(out, q)
	}
	return out
}

// IntervalLabels renders bin labels for breaks. The first bin is closed on
// both ends, the others are open on the left. Numbers use three significant
// digits, widened until neighbouring breaks render differently.
func IntervalLabels(breaks []float64) []string {
	if len(breaks) == 1 {
		b := formatBreaks(breaks)[0]
		return []string{"[" + b + "," + b + "]"}
	}
	text := formatBreaks(breaks)
	out := make([]string, len(breaks)-1)
	for i := range out {
		open := "("
		if i == 0 {
			open = "["
		}
		out[i] = open + text[i] + "," + text[i+1] + "]"
	}
	return out
}

func formatBreaks(breaks []float64) []string {
	out := make([]string, len(breaks))
	for digits := 3; digits <= 12; digits++ {
		for i, b := range breaks {
			out[i] = strconv.FormatFloat(b, 'g', digits, 64)
		}
		distinct := true
		for i := 1; i < len(out); i++ {
			if out[i] == out[i-1] {
				distinct = false
				break
			}
		}
		if distinct {
			break
		}
	}
	return out
}

// Cut bins c at breaks into a Factor named name. Bins are right-closed and
// the lowest break is included in the first bin. Values outside the breaks
// and missing values are NA. A single break yields one bin holding exactly
// that value.
func Cut(name string, c *table.Numeric, breaks []float64) (*table.Factor, error) {
	if len(breaks) == 0 {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("cannot cut %q without breaks", c.Name()), map[string]any{"column": c.Name()})
	}
	if !sort.Float64sAreSorted(breaks) {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("breaks for %q are not sorted", c.Name()), map[string]any{"column": c.Name()})
	}

	labels := IntervalLabels(breaks)
	codes := make([]int, c.Len())
	for i := range codes {
		codes[i] = -1
		v, ok := c.At(i)
		if !ok {
			continue
		}
		codes[i] = bin(v, breaks)
	}
	return table.NewFactor(name, labels, codes), nil
}

func bin(v float64, breaks []float64) int {
	if len(breaks) == 1 {
		if v == breaks[0] {
			return 0
		}
		return -1
	}
	if v == breaks[0] {
		return 0
	}
	// first break >= v
	j := sort.SearchFloat64s(breaks, v)
	if j == 0 || j == len(breaks) {
		return -1
	}
	return j - 1
}

// QuantileCut cuts c at its own quantiles.
func QuantileCut(name string, c *table.Numeric, probs []float64) (*table.Factor, error) {
	breaks := Breaks(c.Present(), probs)
	if len(breaks) == 0 {
		return table.NewFactor(name, nil, make([]int, c.Len())), nil
	}
	return Cut(name, c, breaks)
}
