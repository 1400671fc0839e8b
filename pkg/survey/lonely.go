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


package survey

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// LonelyPSU selects how an estimator treats strata with a single sampling
// unit.
type LonelyPSU string

const (
	// LonelyFail makes estimation fail when a singleton stratum exists.
	LonelyFail LonelyPSU = "fail"
	// LonelyAdjust centers singleton strata at the grand mean.
	LonelyAdjust LonelyPSU = "adjust"
	// LonelyAverage replaces singleton variance by the average of the others.
	LonelyAverage LonelyPSU = "average"
	// LonelyCertainty treats singleton PSUs as sampled with certainty.
	LonelyCertainty LonelyPSU = "certainty"
	// LonelyRemove ignores singleton strata in variance estimation.
	LonelyRemove LonelyPSU = "remove"
)

// LonelyPSUModes returns every accepted mode.
func LonelyPSUModes() []LonelyPSU {
	return []LonelyPSU{LonelyFail, LonelyAdjust, LonelyAverage, LonelyCertainty, LonelyRemove}
}

// ParseLonelyPSU validates a mode name.
func ParseLonelyPSU(s string) (LonelyPSU, error) {
	for _, m := range LonelyPSUModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown lonely PSU mode %q", s),
		map[string]any{"choices": LonelyPSUModes()})
}

// lonelyPSU holds the process-wide mode. The zero value means unset.
var lonelyPSU atomic.Value

// SetLonelyPSU sets the process-wide singleton-stratum option. It must be
// called before any Design.Estimate call.
func SetLonelyPSU(mode LonelyPSU) error {
	if _, err := ParseLonelyPSU(string(mode)); err != nil {
		return err
	}
	lonelyPSU.Store(mode)
	slog.Debug("lonely PSU option set", "mode", mode)
	return nil
}

// LonelyPSUOption returns the process-wide option and whether it was set.
func LonelyPSUOption() (LonelyPSU, bool) {
	m, ok := lonelyPSU.Load().(LonelyPSU)
	return m, ok && m != ""
}

// resetLonelyPSU clears the option. Tests only.
func resetLonelyPSU() {
	lonelyPSU.Store(LonelyPSU(""))
}
