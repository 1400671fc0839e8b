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
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	oras "oras.land/oras-go/v2"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// PushOptions configures pushing a dataset artifact to a registry.
type PushOptions struct {
	// SourceDir holds the dataset files. Ignored by PushFromStore.
	SourceDir string
	// Files limits the artifact to these names within SourceDir.
	Files []string
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "org/gss").
	Repository string
	// Tag is the image tag (e.g., "2022", "latest").
	Tag string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp sets a fixed created annotation.
	ReproducibleTimestamp string
}

// PushResult contains the result of a successful push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string `json:"digest" yaml:"digest"`
	// Reference is the full image reference (registry/repository:tag).
	Reference string `json:"reference" yaml:"reference"`
}

// Push packages SourceDir and pushes it to the registry.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "tag is required to push a dataset")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	storeDir, err := os.MkdirTemp("", "gssr-push-*")
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInternal, "failed to create staging directory", err)
	}
	defer func() { _ = os.RemoveAll(storeDir) }()

	if _, err := Package(ctx, PackageOptions{
		SourceDir:             opts.SourceDir,
		Files:                 opts.Files,
		OutputDir:             storeDir,
		Tag:                   opts.Tag,
		Annotations:           opts.Annotations,
		ReproducibleTimestamp: opts.ReproducibleTimestamp,
	}); err != nil {
		return nil, err
	}
	return PushFromStore(ctx, storeDir, opts)
}

// PushFromStore pushes the artifact tagged opts.Tag in the OCI image
// layout at storePath to the registry.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "tag is required to push a dataset")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound, "failed to open OCI layout", err,
			map[string]any{"dir": storePath})
	}

	repo, err := newRepository(opts.Registry, opts.Repository, opts.PlainHTTP, opts.InsecureTLS)
	if err != nil {
		return nil, err
	}

	desc, err := oras.Copy(ctx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, transferError("failed to push artifact to registry", err)
	}

	refString := fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag)
	slog.Info("dataset pushed", "reference", refString, "digest", desc.Digest.String())
	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// newRepository returns a remote repository configured with Docker
// credentials.
func newRepository(registry, repository string, plainHTTP, insecureTLS bool) (*remote.Repository, error) {
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(registry), repository))
	if err != nil {
		return nil, gsserrors.Wrap(gsserrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = plainHTTP
	repo.Client = createAuthClient(plainHTTP, insecureTLS)
	return repo, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}

// transferError maps a registry transfer failure to a structured error.
func transferError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return gsserrors.Wrap(gsserrors.ErrCodeTimeout, msg, err)
	}
	return gsserrors.Wrap(gsserrors.ErrCodeUnavailable, msg, err)
}
