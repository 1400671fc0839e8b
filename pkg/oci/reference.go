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
	"fmt"
	"strings"

	"github.com/distribution/reference"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// URIScheme marks a registry target (e.g., "oci://ghcr.io/org/gss:2022").
const URIScheme = "oci://"

// DefaultTag is applied when a registry reference carries no tag.
const DefaultTag = "latest"

// Reference is a parsed dataset location: either a registry reference or
// a local OCI image layout directory.
type Reference struct {
	// IsOCI is true for registry references.
	IsOCI bool
	// Registry is the registry host, including any port.
	Registry string
	// Repository is the repository path within the registry.
	Repository string
	// Tag is empty when the reference has none; callers apply a default.
	Tag string
	// LocalPath is the layout directory of a non-registry target.
	LocalPath string
}

// ParseTarget parses "oci://registry/repository[:tag]" as a registry
// reference and anything else as a local layout directory.
func ParseTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		if strings.TrimSpace(target) == "" {
			return nil, gsserrors.New(gsserrors.ErrCodeInvalidRequest, "empty dataset location")
		}
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest, "invalid OCI reference", err,
			map[string]any{"reference": target})
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}
	out := &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}
	if err := ValidateRegistryReference(out.Registry, out.Repository); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateRegistryReference checks that registry and repository form a
// valid image name.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" || repository == "" {
		return gsserrors.New(gsserrors.ErrCodeInvalidRequest, "registry and repository are required")
	}
	name := stripProtocol(registry) + "/" + repository
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return gsserrors.WrapWithContext(gsserrors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"reference": name})
	}
	return nil
}

// String returns the reference in the form ParseTarget accepts.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns "registry/repository[:tag]", or "" for local
// targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy with tag set. Local targets are returned as is.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	out := *r
	out.Tag = tag
	return &out
}

// TagOrDefault returns the tag, or DefaultTag when it is empty.
func (r *Reference) TagOrDefault() string {
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

// stripProtocol removes an http:// or https:// prefix from a registry host.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}
