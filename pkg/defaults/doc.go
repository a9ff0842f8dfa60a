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

// Package defaults provides centralized configuration constants for the
// recipe tooling.
//
// # Categories
//
//   - Publish timeouts: bounds for OCI registry operations
//   - Build settings: parallelism for the external build tool and manifest hashing
//   - Install tree layout: the include/, lib/ and cmake/ directory names
//   - Working directories: CLI defaults for source, build and package trees
//   - File modes: permissions for files written into the install tree
//
// Build phases intentionally carry no timeout here; a long compile or test
// run blocks until the external tool exits or the invocation is interrupted.
package defaults
