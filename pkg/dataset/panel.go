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

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

const (
	// PanelIDColumn identifies a respondent across waves.
	PanelIDColumn = "firstid"
	// WaveColumn holds the panel wave, 1 through MaxWave.
	WaveColumn = "wave"
	// MaxWave is the number of waves in every GSS panel.
	MaxWave = 3
)

// ValidatePanel checks a long-format panel table: firstid is never missing,
// wave is an integer in 1..3, and each (firstid, wave) pair occurs once.
// The respondent id column is reused across waves and is not checked.
func ValidatePanel(t table.Table) error {
	ids, err := t.Column(PanelIDColumn)
	if err != nil {
		return gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest, "panel table has no respondent id",
			err, map[string]any{"column": PanelIDColumn})
	}
	waveCol, err := t.Column(WaveColumn)
	if err != nil {
		return gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest, "panel table has no wave",
			err, map[string]any{"column": WaveColumn})
	}
	waves, err := table.ToNumeric(waveCol)
	if err != nil {
		return gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "panel wave is not numeric", err)
	}

	type key struct {
		id   string
		wave int
	}
	seen := make(map[key]int, t.NRow())
	for i := 0; i < t.NRow(); i++ {
		if ids.IsNA(i) {
			return panelError(i, "missing "+PanelIDColumn, nil)
		}
		w, ok := waves.At(i)
		if !ok || w != float64(int(w)) || w < 1 || w > MaxWave {
			return panelError(i, fmt.Sprintf("wave %q outside 1..%d", waveCol.String(i), MaxWave), nil)
		}
		k := key{id: ids.String(i), wave: int(w)}
		if first, dup := seen[k]; dup {
			return panelError(i, fmt.Sprintf("duplicate (%s, %s) pair", PanelIDColumn, WaveColumn),
				map[string]any{"firstid": k.id, "wave": k.wave, "firstRow": first + 1})
		}
		seen[k] = i
	}
	return nil
}

func panelError(row int, msg string, extra map[string]any) error {
	ctx := map[string]any{"row": row + 1}
	for k, v := range extra {
		ctx[k] = v
	}
	return gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest, "invalid panel table: "+msg, ctx)
}
