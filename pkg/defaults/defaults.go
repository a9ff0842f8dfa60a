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

package defaults

import (
	"os"
	"time"
)

// Publish timeouts for OCI registry operations.
const (
	// PublishTimeout bounds packaging and pushing an install tree to a registry.
	PublishTimeout = 5 * time.Minute

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake with a registry.
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading registry response headers.
	HTTPResponseHeaderTimeout = 30 * time.Second
)

// Timeouts for fetching remote recipe and plan files.
const (
	// HTTPClientTimeout bounds a whole remote file fetch.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the dial timeout for remote file fetches.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPKeepAlive is the keep-alive period for remote file connections.
	HTTPKeepAlive = 30 * time.Second
)

// Build settings. Build phases have no timeout: they block until the
// external tool exits or the context is cancelled.
const (
	// BuildParallelism is the number of parallel jobs passed to the build tool.
	// Zero lets the tool decide.
	BuildParallelism = 0

	// ChecksumConcurrency bounds concurrent file hashing when writing a manifest.
	ChecksumConcurrency = 8
)

// Install tree layout.
const (
	IncludeDir = "include"
	LibDir     = "lib"
	CMakeDir   = "cmake"
)

// Local working directories used by the CLI.
const (
	SourceDir  = "."
	BuildDir   = "build"
	PackageDir = "package"
)

// File modes for written files and directories.
const (
	FileMode os.FileMode = 0o644
	DirMode  os.FileMode = 0o755
)
