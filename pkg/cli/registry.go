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

	"github.com/urfave/cli/v3"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/oci"
)

func registryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "use HTTP instead of HTTPS for the registry connection",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "skip TLS certificate verification",
		},
	}
}

func pullCmd() *cli.Command {
	return &cli.Command{
		Name:      "pull",
		Usage:     "Fetch GSS data files from an OCI registry or image layout",
		ArgsUsage: "REFERENCE",
		Description: `Fetches a dataset artifact into the data directory. REFERENCE is either a
registry reference (oci://registry/repository[:tag]) or a local OCI image
layout directory.

# Examples

  gssr pull oci://ghcr.io/gssr/gss:2022
  gssr pull ./gss-layout --tag 2022 --data-dir ./data`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "tag",
				Usage: fmt.Sprintf("tag to read from a local layout (default: %s)", oci.DefaultTag),
			},
			outputFlag(),
			formatFlag(),
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if ref == "" {
				return gsserrors.New(gsserrors.ErrCodeInvalidRequest, "a reference is required")
			}
			res, err := oci.Pull(ctx, oci.PullOptions{
				Reference:   ref,
				Tag:         cmd.String("tag"),
				DestDir:     cmd.String("data-dir"),
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, res)
		},
	}
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Publish GSS data files as an OCI artifact",
		ArgsUsage: "TARGET",
		Description: `Packages the data directory, one layer per data file. TARGET is either a
registry reference (oci://registry/repository[:tag]), which pushes, or a
local directory, which receives an OCI image layout.

# Examples

  gssr push oci://ghcr.io/gssr/gss:2022
  gssr push ./gss-layout --tag 2022 --file gss_all.dta`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "tag",
				Usage: fmt.Sprintf("tag for a local layout, or to override the reference tag (default: %s)", oci.DefaultTag),
			},
			&cli.StringSliceFlag{
				Name:  "file",
				Usage: "data file to include (repeatable; default: every data file in --data-dir)",
			},
			&cli.StringFlag{
				Name:  "timestamp",
				Usage: "fixed RFC 3339 created annotation for reproducible digests",
			},
			outputFlag(),
			formatFlag(),
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target := cmd.Args().First()
			if target == "" {
				return gsserrors.New(gsserrors.ErrCodeInvalidRequest, "a target is required")
			}
			ref, err := oci.ParseTarget(target)
			if err != nil {
				return err
			}
			tag := cmd.String("tag")
			if tag == "" {
				tag = ref.TagOrDefault()
			}

			if !ref.IsOCI {
				res, err := oci.Package(ctx, oci.PackageOptions{
					SourceDir:             cmd.String("data-dir"),
					Files:                 cmd.StringSlice("file"),
					OutputDir:             ref.LocalPath,
					Tag:                   tag,
					ReproducibleTimestamp: cmd.String("timestamp"),
				})
				if err != nil {
					return err
				}
				return writeResult(ctx, cmd, res)
			}

			res, err := oci.Push(ctx, oci.PushOptions{
				SourceDir:             cmd.String("data-dir"),
				Files:                 cmd.StringSlice("file"),
				Registry:              ref.Registry,
				Repository:            ref.Repository,
				Tag:                   tag,
				PlainHTTP:             cmd.Bool("plain-http"),
				InsecureTLS:           cmd.Bool("insecure-tls"),
				ReproducibleTimestamp: cmd.String("timestamp"),
			})
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, res)
		},
	}
}
