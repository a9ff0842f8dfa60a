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
	"path/filepath"
	"strings"

	"github.com/distribution/reference"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/sds/sisl:1.0.4").
const URIScheme = "oci://"

// Reference represents a parsed publish target, which can be either an OCI registry
// reference or a local directory path.
type Reference struct {
	// IsOCI indicates whether this is an OCI registry reference (true) or local path (false).
	IsOCI bool
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "sds/sisl").
	Repository string
	// Tag is the image tag. Empty means the caller applies a default.
	Tag string
	// LocalPath is the local directory path for non-OCI output.
	LocalPath string
}

// ParseOutputTarget parses a publish target string to detect an OCI URI or local directory.
// If no tag is specified in an OCI URI, Tag is empty.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{
			IsOCI:     false,
			LocalPath: target,
		}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a valid image name.
func ValidateRegistryReference(registry, repository string) error {
	name := fmt.Sprintf("%s/%s", stripProtocol(registry), repository)
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return sislerrors.WrapWithContext(sislerrors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"reference": name})
	}
	return nil
}

// String returns "oci://registry/repository[:tag]" for OCI references and the path otherwise.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns the Docker-style image reference without the oci:// scheme.
// Returns empty string for non-OCI references.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the specified tag.
// For non-OCI references, returns the same reference unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}

// OutputConfig configures the package and push workflow.
type OutputConfig struct {
	// SourceDir is the install tree to package.
	SourceDir string
	// OutputDir is where the OCI image layout is written.
	OutputDir string
	// Reference is the parsed OCI registry reference.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are added to the artifact manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins the manifest creation annotation.
	ReproducibleTimestamp string
}

// PackageAndPushResult contains the result of a successful package and push operation.
type PackageAndPushResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// StorePath is the path to the local OCI image layout directory.
	StorePath string
}

// PackageAndPush packages a directory as an OCI artifact and pushes it to a registry.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "OCI reference is required for PackageAndPush")
	}
	if cfg.Reference.Tag == "" {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	absOutputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	packageResult, err := Package(ctx, PackageOptions{
		SourceDir:             cfg.SourceDir,
		OutputDir:             absOutputDir,
		Registry:              cfg.Reference.Registry,
		Repository:            cfg.Reference.Repository,
		Tag:                   cfg.Reference.Tag,
		Annotations:           cfg.Annotations,
		ReproducibleTimestamp: cfg.ReproducibleTimestamp,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("pushing OCI artifact to remote registry",
		"registry", cfg.Reference.Registry,
		"repository", cfg.Reference.Repository,
		"tag", cfg.Reference.Tag,
	)

	pushResult, err := PushFromStore(ctx, packageResult.StorePath, PushOptions{
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("OCI artifact pushed successfully",
		"reference", pushResult.Reference,
		"digest", pushResult.Digest,
	)

	return &PackageAndPushResult{
		Digest:    pushResult.Digest,
		Reference: pushResult.Reference,
		StorePath: packageResult.StorePath,
	}, nil
}
