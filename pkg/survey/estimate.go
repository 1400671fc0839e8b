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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/table"
)

// Statistic names a design-based estimate.
type Statistic string

const (
	StatMean  Statistic = "mean"
	StatTotal Statistic = "total"
	StatProp  Statistic = "prop"
)

// DefaultLevel is the confidence level used when a query leaves it unset.
const DefaultLevel = 0.95

// Query asks for a statistic of one variable, optionally by groups.
type Query struct {
	Variable  string    `json:"variable" yaml:"variable"`
	By        []string  `json:"by,omitempty" yaml:"by,omitempty"`
	Statistic Statistic `json:"statistic" yaml:"statistic"`
	Level     float64   `json:"level" yaml:"level"`
}

// Estimate is one point estimate with its standard error and confidence
// interval. Group maps each By column to its value.
type Estimate struct {
	Group map[string]string `json:"group,omitempty" yaml:"group,omitempty"`
	Value float64           `json:"value" yaml:"value"`
	SE    float64           `json:"se" yaml:"se"`
	Lower float64           `json:"lower" yaml:"lower"`
	Upper float64           `json:"upper" yaml:"upper"`
}

// Result holds the estimates for a query.
type Result struct {
	Query     Query      `json:"query" yaml:"query"`
	Estimates []Estimate `json:"estimates" yaml:"estimates"`
}

func (r Result) Header() []string {
	h := append([]string(nil), r.Query.By...)
	for i := range h {
		h[i] = strings.ToUpper(h[i])
	}
	return append(h, strings.ToUpper(string(r.Query.Statistic)), "SE", "LOWER", "UPPER")
}

func (r Result) Rows() [][]string {
	rows := make([][]string, 0, len(r.Estimates))
	for _, e := range r.Estimates {
		row := make([]string, 0, len(r.Query.By)+4)
		for _, b := range r.Query.By {
			row = append(row, e.Group[b])
		}
		row = append(row,
			table.FormatNumber(e.Value),
			table.FormatNumber(e.SE),
			table.FormatNumber(e.Lower),
			table.FormatNumber(e.Upper),
		)
		rows = append(rows, row)
	}
	return rows
}

// Estimator computes design-based estimates. Implementations live outside
// this module; gssr only prepares the design.
type Estimator interface {
	Estimate(ctx context.Context, d *Design, q Query) (Result, error)
}

// EstimatorFunc adapts a function to Estimator.
type EstimatorFunc func(ctx context.Context, d *Design, q Query) (Result, error)

// Estimate calls f.
func (f EstimatorFunc) Estimate(ctx context.Context, d *Design, q Query) (Result, error) {
	return f(ctx, d, q)
}

func (q Query) withDefaults() Query {
	if q.Statistic == "" {
		q.Statistic = StatMean
	}
	if q.Level == 0 {
		q.Level = DefaultLevel
	}
	return q
}

func (q Query) validate(d *Design) error {
	switch q.Statistic {
	case StatMean, StatTotal, StatProp:
	default:
		return gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown statistic %q", q.Statistic),
			map[string]any{"choices": []Statistic{StatMean, StatTotal, StatProp}})
	}
	if q.Level <= 0 || q.Level >= 1 {
		return gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			"confidence level must be between 0 and 1", map[string]any{"level": q.Level})
	}
	for _, name := range append([]string{q.Variable}, q.By...) {
		if !d.data.Has(name) {
			return gsserrors.NewWithContext(gsserrors.ErrCodeConfiguration,
				fmt.Sprintf("query column %q not in design data", name),
				map[string]any{"column": name})
		}
	}
	return nil
}

// Estimate hands the design and query to est. It refuses to run until
// SetLonelyPSU has been called, and under LonelyFail it refuses designs
// with singleton strata.
func (d *Design) Estimate(ctx context.Context, est Estimator, q Query) (Result, error) {
	mode, ok := LonelyPSUOption()
	if !ok {
		return Result{}, gsserrors.New(gsserrors.ErrCodeConfiguration,
			"lonely PSU option not set: call survey.SetLonelyPSU before estimating")
	}
	if est == nil {
		return Result{}, gsserrors.New(gsserrors.ErrCodeConfiguration, "no estimator configured")
	}
	q = q.withDefaults()
	if err := q.validate(d); err != nil {
		return Result{}, err
	}
	if mode == LonelyFail {
		if s := d.Summary(); s.Singletons > 0 {
			return Result{}, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
				"design has strata with a single sampling unit",
				map[string]any{"strata": s.SingletonStrata, "lonelyPSU": mode})
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.EstimateTimeout)
	defer cancel()

	start := time.Now()
	res, err := est.Estimate(ctx, d, q)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{}, gsserrors.Wrap(gsserrors.ErrCodeTimeout, "estimation did not finish", err)
		}
		return Result{}, gsserrors.Wrap(gsserrors.ErrCodeInternal, "estimator failed", err)
	}
	res.Query = q
	slog.Debug("estimate computed",
		"variable", q.Variable,
		"statistic", q.Statistic,
		"groups", len(res.Estimates),
		"duration", time.Since(start),
	)
	return res, nil
}
