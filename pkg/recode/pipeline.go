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
	"context"
	"fmt"
	"log/slog"
	"time"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// Step is one named transformation of a table.
type Step struct {
	Name  string
	Apply func(table.Table) (table.Table, error)
}

// Pipeline applies steps in order.
type Pipeline struct {
	steps []Step
}

// New returns a Pipeline running steps in the given order.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: append([]Step(nil), steps...)}
}

// Default returns the standard GSS pipeline configured by cfg.
func Default(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(
		ZapStep(),
		NumericStep(cfg.NumericColumns),
		FactorStep(cfg.FactorColumns),
		CapwordsStep(cfg.FactorColumns),
		AgeGroupStep(ColumnAgeQuartile, cfg.AgeColumn, QuartileProbs),
		AgeGroupStep(ColumnAgeQuintile, cfg.AgeColumn, QuintileProbs),
		YearFactorStep(cfg.YearColumn),
		YoungStep(cfg.AgeColumn, cfg.YoungAge),
		NonSubstantiveStep(cfg.LikertColumn, cfg.NonSubstantive),
		BinaryStep(cfg.LikertColumn, cfg.Collapse, cfg.AgreeLevel, cfg.DisagreeLevel),
		BinaryCodeStep(cfg.AgreeLevel, cfg.DisagreeLevel),
		CompositeWeightStep(cfg.OversampColumn, cfg.FormwtColumn, cfg.WtssallColumn),
		SampleRecodeStep(cfg.SampleColumn, cfg.SamplePools),
	), nil
}

// Steps returns the step names in run order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Name
	}
	return out
}

// Run applies every step to t. The first failing step stops the run and no
// table is returned. Cancellation is checked between steps.
func (p *Pipeline) Run(ctx context.Context, t table.Table) (table.Table, error) {
	cur := t
	for _, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeTimeout,
				fmt.Sprintf("recoding stopped before step %s", s.Name), err)
		}

		start := time.Now()
		next, err := s.Apply(cur)
		elapsed := time.Since(start)
		stepDuration.WithLabelValues(s.Name).Observe(elapsed.Seconds())

		if err != nil {
			code := gsserrors.CodeOf(err)
			runFailures.WithLabelValues(s.Name, string(code)).Inc()
			slog.Error("recode step failed", "step", s.Name, "error", err)
			if code == gsserrors.ErrCodeConfiguration {
				return table.Table{}, err
			}
			return table.Table{}, gsserrors.WrapWithContext(code,
				fmt.Sprintf("recode step %s failed", s.Name), err, map[string]any{"step": s.Name})
		}

		slog.Debug("recode step complete",
			"step", s.Name,
			"rows", next.NRow(),
			"columns", next.NCol(),
			"duration", elapsed)
		cur = next
	}
	return cur, nil
}
