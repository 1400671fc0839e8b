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
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/serializer"
)

// EnvFormat sets the default output format.
const EnvFormat = "GSSR_FORMAT"

func dataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Aliases: []string{"d"},
		Usage:   "directory holding GSS data files",
		Value:   dataset.DefaultDir(),
		Sources: cli.EnvVars(dataset.EnvDataDir),
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatTable),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars(EnvFormat),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(cmd.String("format")))
	if f.IsUnknown() {
		return "", gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q", cmd.String("format")),
			map[string]any{"choices": serializer.SupportedFormats()})
	}
	return f, nil
}

// writeResult serializes v to --output, or stdout, in --format.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	var w *serializer.Writer
	if path := cmd.String("output"); path != "" {
		w = serializer.NewFileWriterOrStdout(f, path)
	} else {
		w = serializer.NewWriter(f, cmd.Root().Writer)
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}()

	return w.Serialize(ctx, v)
}

func newLoader(cmd *cli.Command) *dataset.Loader {
	return dataset.NewLoader(cmd.String("data-dir"))
}
