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


package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// ArtifactType is the artifact type of gssr dataset artifacts.
const ArtifactType = "application/vnd.gssr.dataset"

// Layer media types by file extension.
const (
	MediaTypeStata   = "application/vnd.gssr.dataset.layer.v1.dta"
	MediaTypeCSV     = "text/csv"
	MediaTypeParquet = "application/vnd.apache.parquet"
	MediaTypeYAML    = "application/yaml"
	MediaTypeBinary  = "application/octet-stream"
)

var mediaTypes = map[string]string{
	".dta":     MediaTypeStata,
	".csv":     MediaTypeCSV,
	".parquet": MediaTypeParquet,
	".yaml":    MediaTypeYAML,
	".yml":     MediaTypeYAML,
}

// MediaTypeFor returns the layer media type for a file name.
func MediaTypeFor(name string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return MediaTypeBinary
}

// PackageOptions configures packaging a data directory as an OCI image
// layout.
type PackageOptions struct {
	// SourceDir holds the dataset files.
	SourceDir string
	// Files limits the artifact to these names within SourceDir. When empty,
	// every .dta, .csv, .parquet and .yaml file in SourceDir is included.
	Files []string
	// OutputDir receives the OCI image layout.
	OutputDir string
	// Tag names the manifest in the layout.
	Tag string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp fixes the created annotation so identical
	// inputs produce identical digests.
	ReproducibleTimestamp string
}

// PackageResult describes a packaged artifact.
type PackageResult struct {
	Digest    string   `json:"digest" yaml:"digest"`
	Tag       string   `json:"tag" yaml:"tag"`
	StorePath string   `json:"storePath" yaml:"storePath"`
	Files     []string `json:"files" yaml:"files"`
}

// Package writes the dataset files of SourceDir into an OCI image layout
// at OutputDir, one layer per file, tagged with Tag.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "tag is required to package a dataset")
	}
	if opts.SourceDir == "" || opts.OutputDir == "" {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "source and output directories are required")
	}

	absSource, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	files, err := selectFiles(absSource, opts.Files)
	if err != nil {
		return nil, err
	}

	fs, err := file.New(absSource)
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	layers := make([]ociv1.Descriptor, 0, len(files))
	for _, name := range files {
		desc, err := fs.Add(ctx, name, MediaTypeFor(name), filepath.Join(absSource, name))
		if err != nil {
			return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeInternal, "failed to add dataset file", err,
				map[string]any{"file": name})
		}
		layers = append(layers, desc)
	}

	annotations := map[string]string{
		ociv1.AnnotationTitle: "GSS data",
	}
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	} else if _, ok := annotations[ociv1.AnnotationCreated]; !ok {
		annotations[ociv1.AnnotationCreated] = time.Now().UTC().Format(time.RFC3339)
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              layers,
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	store, err := ocilayout.New(opts.OutputDir)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeInternal, "failed to create OCI layout", err,
			map[string]any{"dir": opts.OutputDir})
	}
	if err := oras.CopyGraph(ctx, fs, store, manifest, oras.DefaultCopyGraphOptions); err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to write OCI layout", err)
	}
	if err := store.Tag(ctx, manifest, opts.Tag); err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	slog.Debug("dataset packaged",
		"store", opts.OutputDir,
		"tag", opts.Tag,
		"digest", manifest.Digest.String(),
		"files", len(files),
	)
	return &PackageResult{
		Digest:    manifest.Digest.String(),
		Tag:       opts.Tag,
		StorePath: opts.OutputDir,
		Files:     files,
	}, nil
}

// selectFiles returns the sorted names to package.
func selectFiles(dir string, names []string) ([]string, error) {
	if len(names) > 0 {
		out := slices.Clone(names)
		for _, n := range out {
			if n != filepath.Base(n) {
				return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
					"dataset file names must not contain directories", map[string]any{"file": n})
			}
			fi, err := os.Stat(filepath.Join(dir, n))
			if err != nil || !fi.Mode().IsRegular() {
				return nil, gsserrors.NewWithContext(gsserrors.ErrCodeNotFound,
					fmt.Sprintf("dataset file %q not found", n), map[string]any{"dir": dir})
			}
		}
		slices.Sort(out)
		return slices.Compact(out), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "failed to read source directory", err,
			map[string]any{"dir": dir})
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := mediaTypes[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			out = append(out, e.Name())
		}
	}
	if len(out) == 0 {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeNotFound, "no dataset files to package",
			map[string]any{"dir": dir})
	}
	return out, nil
}
