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
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/sbinmalek/sisl/pkg/defaults"
	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// ArtifactType is the media type for packaged recipe artifacts.
const ArtifactType = "application/vnd.sisl.package.v1"

// StoreDir is the directory name of the OCI image layout under PackageOptions.OutputDir.
const StoreDir = "oci-layout"

// PackageOptions configures local OCI packaging.
type PackageOptions struct {
	// SourceDir is the install tree to package.
	SourceDir string
	// OutputDir is where the OCI image layout directory is created.
	OutputDir string
	// Registry is the OCI registry host recorded in the reference.
	Registry string
	// Repository is the image repository path (e.g., "sds/sisl").
	Repository string
	// Tag is the image tag (e.g., "1.0.4").
	Tag string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins the creation annotation so equal trees yield equal digests.
	ReproducibleTimestamp string
}

// PackageResult contains the result of local packaging.
type PackageResult struct {
	// Digest is the SHA256 digest of the manifest.
	Digest string
	// Reference is the image reference (registry/repository:tag).
	Reference string
	// StorePath is the OCI image layout directory.
	StorePath string
}

// PushOptions configures the OCI push operation.
type PushOptions struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "sds/sisl").
	Repository string
	// Tag is the image tag.
	Tag string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult contains the result of a successful OCI push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Package writes SourceDir as a single gzip layer artifact into an OCI image
// layout under OutputDir, tagged with Tag.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	switch {
	case opts.Tag == "":
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	case opts.Registry == "":
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "registry is required for OCI packaging")
	case opts.Repository == "":
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "repository is required for OCI packaging")
	}

	registryHost := stripProtocol(opts.Registry)
	if err := ValidateRegistryReference(registryHost, opts.Repository); err != nil {
		return nil, err
	}

	absSourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	if info, statErr := os.Stat(absSourceDir); statErr != nil || !info.IsDir() {
		return nil, sislerrors.NewWithContext(sislerrors.ErrCodeNotFound, "source directory not found",
			map[string]any{"dir": absSourceDir})
	}

	storePath, err := filepath.Abs(filepath.Join(opts.OutputDir, StoreDir))
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	fs, err := file.New(absSourceDir)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absSourceDir)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to add source directory to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	// The file store writes any descriptor carrying a title into SourceDir.
	delete(annotations, ociv1.AnnotationTitle)
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if tagErr := fs.Tag(ctx, manifestDesc, opts.Tag); tagErr != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to tag manifest in local store", tagErr)
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to create OCI layout store", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to write OCI layout", err)
	}

	ref := fmt.Sprintf("%s/%s:%s", registryHost, opts.Repository, opts.Tag)
	slog.Info("OCI artifact packaged locally",
		"reference", ref,
		"digest", desc.Digest.String(),
		"store_path", storePath,
	)

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: ref,
		StorePath: storePath,
	}, nil
}

// PushFromStore copies a tagged artifact from an OCI image layout to a remote registry.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "tag is required to push OCI image")
	}

	registryHost := stripProtocol(opts.Registry)
	if err := ValidateRegistryReference(registryHost, opts.Repository); err != nil {
		return nil, err
	}

	if _, err := os.Stat(storePath); err != nil {
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeNotFound, "OCI layout store not found", err,
			map[string]any{"store_path": storePath})
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to open OCI layout store", err)
	}

	refString := fmt.Sprintf("%s/%s:%s", registryHost, opts.Repository, opts.Tag)

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, opts.Repository))
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	pushCtx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
	defer cancel()

	desc, err := oras.Copy(pushCtx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		if pushCtx.Err() != nil {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeTimeout, "push to registry timed out", err)
		}
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeUnavailable, "failed to push artifact to registry", err,
			map[string]any{"reference": refString})
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = defaults.HTTPTLSHandshakeTimeout
	transport.ResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout
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

	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable, pushing anonymously", "error", err)
		return client
	}
	client.Credential = credentials.Credential(credStore)
	return client
}
