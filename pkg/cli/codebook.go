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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gssr-go/gssr/pkg/codebook"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

func codebookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "codebook",
			Aliases: []string{"c"},
			Value:   codebook.CumulativeName,
			Usage: fmt.Sprintf("embedded codebook (%s, %s), or a path/URL to a JSON or YAML codebook",
				codebook.CumulativeName, codebook.PanelName),
		},
		outputFlag(),
		formatFlag(),
	}
}

// codebookFromCmd resolves --codebook as an embedded name, then as a file.
func codebookFromCmd(cmd *cli.Command) (*codebook.Codebook, error) {
	ref := cmd.String("codebook")
	switch ref {
	case "", codebook.CumulativeName, codebook.PanelName:
		return codebook.ByName(ref)
	}
	return codebook.LoadFile(ref)
}

// variableArgs collects ids from the --var flag and positional arguments.
func variableArgs(cmd *cli.Command) ([]string, error) {
	var ids []string
	for _, v := range append(cmd.StringSlice("var"), cmd.Args().Slice()...) {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "at least one variable is required")
	}
	return ids, nil
}

func varFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "var",
		Aliases: []string{"v"},
		Usage:   "variable id (repeatable, or comma-separated)",
	}
}

func marginalsCmd() *cli.Command {
	return &cli.Command{
		Name:      "marginals",
		Usage:     "Show the codebook marginals of one or more variables",
		ArgsUsage: "[VAR...]",
		Description: `Prints one row per response category of each matched variable, in codebook
order. Ids are matched exactly; unknown ids are skipped.

# Examples

  gssr marginals fefam race
  gssr marginals --codebook panel --var FEFAM_1,FEFAM_2 --format json`,
		Flags: append([]cli.Flag{varFlag()}, codebookFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ids, err := variableArgs(cmd)
			if err != nil {
				return err
			}
			cb, err := codebookFromCmd(cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, codebook.GetMarginals(ids, cb))
		},
	}
}

func propertiesCmd() *cli.Command {
	return &cli.Command{
		Name:      "properties",
		Usage:     "Show the description, question and value labels of variables",
		ArgsUsage: "[VAR...]",
		Flags:     append([]cli.Flag{varFlag()}, codebookFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ids, err := variableArgs(cmd)
			if err != nil {
				return err
			}
			cb, err := codebookFromCmd(cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, codebook.GetProperties(ids, cb))
		},
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find variables whose id or description contains a term",
		ArgsUsage: "TERM",
		Flags:     codebookFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			term := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if term == "" {
				return gsserrors.New(gsserrors.ErrCodeInvalidRequest, "a search term is required")
			}
			cb, err := codebookFromCmd(cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, codebook.Search(term, cb))
		},
	}
}
