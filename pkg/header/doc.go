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

// Package header provides the common envelope stamped on every document the
// recipe tooling emits (recipes, resolutions, build plans, package manifests,
// consumer info and publish results).
//
// The Header carries a Kind, an APIVersion and a small metadata map:
//
//	var h header.Header
//	h.Init(header.KindConsumerInfo, "v1.0.0", invocationID)
//
// Serialized as YAML:
//
//	kind: ConsumerInfo
//	apiVersion: sisl.pkg/v1
//	metadata:
//	  invocation: 3b1f...
//	  version: v1.0.0
//
// Init deliberately records no timestamp. Two runs over identical inputs
// differ only in the invocation ID, which callers may leave empty.
package header
