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

// Package cli implements the sislpkg command-line interface.
//
// # Overview
//
// sislpkg builds, packages and describes the sisl and sds_metrics native
// libraries from declarative recipes. Each command loads a recipe from the
// built-in catalog (--recipe) or from a YAML file or URL (--recipe-file),
// resolves its options against settings and prints a document.
//
// # Commands
//
//	recipes   list the built-in recipes
//	inspect   show a recipe declaration
//	resolve   resolve options and settings
//	plan      compute CMake definitions and the test target
//	build     run cmake configure, build and test
//	package   copy the layout into the install tree and write manifest.txt
//	verify    check an install tree against its manifest
//	info      emit libraries and flags for downstream consumers
//	create    build, package and info in one run
//	publish   publish the install tree as an OCI artifact
//
// # Options and Settings
//
// Options and settings are given as repeated assignments, optionally on top
// of a TOML profile. Assignments on the command line win over the profile:
//
//	sislpkg info --recipe sisl --profile linux.toml -s compiler=clang -o sanitize=True
//
// # Output Formats
//
//	--format, -t   yaml (default), json or table
//	--output       file path (default: stdout)
//
// Every document carries kind, apiVersion and metadata with the tool version
// and the invocation ID of the run.
//
// # Environment Variables
//
//	LOG_LEVEL          logging verbosity (debug, info, warn, error)
//	SISL_RECIPE        default for --recipe
//	SISL_PROFILE       default for --profile
//	SISL_METRICS_FILE  write Prometheus metrics to this file on exit
//
// --env-file loads a dotenv file before flags are read.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/sbinmalek/sisl/pkg/cli.version=1.0.0'"
package cli
