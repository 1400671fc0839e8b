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
	"encoding/json"
	"log/slog"
	"os"
	"slices"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"

	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// PullOptions configures fetching a dataset artifact.
type PullOptions struct {
	// Reference is an "oci://" registry reference or a local OCI image
	// layout directory.
	Reference string
	// Tag selects the manifest in a local layout. Registry references
	// carry their own tag.
	Tag string
	// DestDir receives the dataset files.
	DestDir string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PullResult describes a fetched artifact.
type PullResult struct {
	Digest    string   `json:"digest" yaml:"digest"`
	Reference string   `json:"reference" yaml:"reference"`
	Files     []string `json:"files" yaml:"files"`
}

// Pull fetches a dataset artifact into DestDir, from a registry or from a
// local OCI image layout depending on the reference.
func Pull(ctx context.Context, opts PullOptions) (*PullResult, error) {
	if opts.DestDir == "" {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "destination directory is required")
	}
	ref, err := ParseTarget(opts.Reference)
	if err != nil {
		return nil, err
	}
	if !ref.IsOCI {
		tag := opts.Tag
		if tag == "" {
			tag = DefaultTag
		}
		return PullFromStore(ctx, ref.LocalPath, tag, opts.DestDir)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPullTimeout)
	defer cancel()

	repo, err := newRepository(ref.Registry, ref.Repository, opts.PlainHTTP, opts.InsecureTLS)
	if err != nil {
		return nil, err
	}
	ref = ref.WithTag(ref.TagOrDefault())
	res, err := pullInto(ctx, repo, ref.Tag, opts.DestDir)
	if err != nil {
		return nil, err
	}
	res.Reference = ref.String()
	return res, nil
}

// PullFromStore extracts the artifact tagged tag from the OCI image layout
// at storePath into destDir.
func PullFromStore(ctx context.Context, storePath, tag, destDir string) (*PullResult, error) {
	if _, err := os.Stat(storePath); err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "OCI layout not found", err,
			map[string]any{"dir": storePath})
	}
	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "failed to open OCI layout", err,
			map[string]any{"dir": storePath})
	}
	res, err := pullInto(ctx, store, tag, destDir)
	if err != nil {
		return nil, err
	}
	res.Reference = storePath + ":" + tag
	return res, nil
}

func pullInto(ctx context.Context, src oras.ReadOnlyTarget, tag, destDir string) (*PullResult, error) {
	desc, err := src.Resolve(ctx, tag)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "dataset artifact not found", err,
			map[string]any{"tag": tag})
	}

	raw, err := content.FetchAll(ctx, src, desc)
	if err != nil {
		return nil, transferError("failed to fetch manifest", err)
	}
	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "invalid artifact manifest", err)
	}
	if manifest.ArtifactType != ArtifactType {
		return nil, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest, "artifact is not a gssr dataset",
			map[string]any{"artifactType": manifest.ArtifactType})
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeInternal, "failed to create destination directory", err,
			map[string]any{"dir": destDir})
	}
	dst, err := file.New(destDir)
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = dst.Close() }()

	if err := oras.CopyGraph(ctx, src, dst, desc, oras.DefaultCopyGraphOptions); err != nil {
		return nil, transferError("failed to fetch dataset files", err)
	}

	files := make([]string, 0, len(manifest.Layers))
	for _, l := range manifest.Layers {
		if name := l.Annotations[ociv1.AnnotationTitle]; name != "" {
			files = append(files, name)
		}
	}
	slices.Sort(files)

	slog.Info("dataset pulled", "tag", tag, "digest", desc.Digest.String(), "files", len(files), "dir", destDir)
	return &PullResult{
		Digest: desc.Digest.String(),
		Files:  files,
	}, nil
}
