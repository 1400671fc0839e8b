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


package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gssr-go/gssr/pkg/dataset"
	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/export"
	"github.com/gssr-go/gssr/pkg/recode"
	"github.com/gssr-go/gssr/pkg/survey"
	"github.com/gssr-go/gssr/pkg/table"
)

func datasetFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "dataset",
		Value: dataset.All,
		Usage: fmt.Sprintf("dataset to load (%s)", strings.Join(dataset.Names(dataset.KindCrossSection), ", ")),
	}
}

func recodeConfigFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "path/URL to a YAML or JSON recode config (default: GSS column names)",
	}
}

// loadRecoded loads --dataset and runs the default pipeline over it.
func loadRecoded(ctx context.Context, cmd *cli.Command) (table.Table, error) {
	cfg := recode.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = recode.LoadConfig(path); err != nil {
			return table.Table{}, err
		}
	}
	p, err := recode.Default(cfg)
	if err != nil {
		return table.Table{}, err
	}

	t, err := newLoader(cmd).Load(ctx, cmd.String("dataset"))
	if err != nil {
		return table.Table{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.RecodeTimeout)
	defer cancel()
	return p.Run(ctx, t)
}

func recodeCmd() *cli.Command {
	return &cli.Command{
		Name:  "recode",
		Usage: "Run the standard recoding pipeline over a dataset",
		Description: `Loads a dataset, zaps missing codes, converts labelled columns, derives age
groups, the binary fefam outcome and the composite weight, and writes the
result.

The output format follows --table-format, or the --output extension.

# Examples

  gssr recode --output gss_recoded.parquet
  gssr recode --columns year,age,ageq,fefam_d --limit 10
  gssr recode --config recode.yaml --table-format csv > out.csv`,
		Flags: []cli.Flag{
			datasetFlag(),
			recodeConfigFlag(),
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "keep only these columns (repeatable, or comma-separated)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "write at most this many rows (0 writes all)",
			},
			&cli.StringFlag{
				Name:  "table-format",
				Usage: fmt.Sprintf("table format (%s)", strings.Join(export.Formats(), ", ")),
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := tableFormat(cmd)
			if err != nil {
				return err
			}

			t, err := loadRecoded(ctx, cmd)
			if err != nil {
				return err
			}
			if t, err = shape(t, cmd.StringSlice("columns"), cmd.Int("limit")); err != nil {
				return err
			}

			if path := cmd.String("output"); path != "" {
				return export.WriteFile(ctx, path, t, f)
			}
			return export.Write(ctx, cmd.Root().Writer, t, f)
		},
	}
}

// tableFormat resolves --table-format, falling back to the --output
// extension, then to an aligned table.
func tableFormat(cmd *cli.Command) (export.Format, error) {
	if s := cmd.String("table-format"); s != "" {
		return export.ParseFormat(s)
	}
	if path := cmd.String("output"); path != "" {
		return export.FormatFromPath(path), nil
	}
	return export.FormatTable, nil
}

// shape selects columns and truncates rows.
func shape(t table.Table, columns []string, limit int) (table.Table, error) {
	var names []string
	for _, c := range columns {
		for _, n := range strings.Split(c, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	if len(names) > 0 {
		var err error
		if t, err = t.Select(names...); err != nil {
			return table.Table{}, err
		}
	}
	if limit < 0 {
		return table.Table{}, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "limit must not be negative")
	}
	if limit > 0 && limit < t.NRow() {
		rows := make([]int, limit)
		for i := range rows {
			rows[i] = i
		}
		t = t.Take(rows)
	}
	return t, nil
}

func designCmd() *cli.Command {
	return &cli.Command{
		Name:  "design",
		Usage: "Build the GSS survey design over a recoded dataset and summarize it",
		Description: `Recodes the dataset, drops rows missing young, fefam_d, a design
column or a --require column, crosses year and vstrat into the synthetic
stratum and reports strata, sampling units, singleton strata and the weight
total.

--lonely-psu sets how singleton strata are treated by estimators and must be
given explicitly.

# Examples

  gssr design --lonely-psu adjust --require fefam_n --min-year 1975`,
		Flags: []cli.Flag{
			datasetFlag(),
			recodeConfigFlag(),
			&cli.StringFlag{
				Name:     "lonely-psu",
				Required: true,
				Usage:    fmt.Sprintf("singleton stratum option (%s)", lonelyPSUChoices()),
			},
			&cli.StringSliceFlag{
				Name:  "require",
				Usage: "analysis columns that must be present, in addition to young and fefam_d (repeatable)",
			},
			&cli.IntFlag{
				Name:  "min-year",
				Usage: "drop survey years before this one",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mode, err := survey.ParseLonelyPSU(cmd.String("lonely-psu"))
			if err != nil {
				return err
			}
			if err := survey.SetLonelyPSU(mode); err != nil {
				return err
			}

			t, err := loadRecoded(ctx, cmd)
			if err != nil {
				return err
			}

			spec := survey.DefaultDesignSpec()
			spec.Require = append(spec.Require, cmd.StringSlice("require")...)
			spec.MinYear = float64(cmd.Int("min-year"))

			d, err := survey.NewDesign(t, spec)
			if err != nil {
				return err
			}
			summary := d.Summary()
			slog.Debug("design built", "rows", summary.Rows, "strata", summary.Strata)
			return writeResult(ctx, cmd, summary)
		},
	}
}

func lonelyPSUChoices() string {
	modes := survey.LonelyPSUModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return strings.Join(out, ", ")
}
