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

// Package oci publishes assembled packages to OCI-compliant registries.
//
// An install tree is packaged as a single gzip layer artifact with the
// media type "application/vnd.sisl.package.v1", using the ORAS (OCI Registry
// As Storage) library. Publishing runs in two steps that can be used
// independently:
//   - Package: writes the artifact into a local OCI image layout
//   - PushFromStore: copies a tagged artifact from a layout to a registry
//
// # Usage
//
//	pkgResult, err := oci.Package(ctx, oci.PackageOptions{
//	    SourceDir:  "package",
//	    OutputDir:  "build",
//	    Registry:   "ghcr.io",
//	    Repository: "sds/sisl",
//	    Tag:        "1.0.4",
//	})
//	if err != nil {
//	    return err
//	}
//
//	pushResult, err := oci.PushFromStore(ctx, pkgResult.StorePath, oci.PushOptions{
//	    Registry:   "ghcr.io",
//	    Repository: "sds/sisl",
//	    Tag:        "1.0.4",
//	})
//
// PackageAndPush combines both steps for an oci:// target parsed with
// ParseOutputTarget.
//
// # Reproducibility
//
// Layer tarballs are written with reproducible metadata. Setting
// PackageOptions.ReproducibleTimestamp pins the manifest creation
// annotation, so packaging an unchanged install tree twice yields the same
// digest.
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package. When no
// configuration is available the push is anonymous.
package oci
