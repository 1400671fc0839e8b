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

	"github.com/gssr-go/gssr/pkg/palette"
)

// paletteResult is a palette and its colors.
type paletteResult struct {
	Name   string   `json:"name" yaml:"name"`
	Colors []string `json:"colors" yaml:"colors"`
}

func colorsCmd() *cli.Command {
	return &cli.Command{
		Name:      "colors",
		Usage:     "Print a colorblind-safe palette",
		ArgsUsage: "NAME",
		Description: fmt.Sprintf("Prints the hex colors of a palette. NAME is one of: %s.",
			strings.Join(palette.Names(), ", ")),
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				name = palette.Colorblind
			}
			colors, err := palette.Colors(name)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, paletteResult{Name: name, Colors: colors})
		},
	}
}
