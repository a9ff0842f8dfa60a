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

// Package serializer encodes and decodes the documents emitted by sislpkg.
//
// Writers render recipes, resolutions, build plans, package manifests and
// consumer info as JSON, YAML or a flat FIELD/VALUE table:
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "plan.yaml")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.Serialize(ctx, plan)
//
// Table output flattens nested values into dotted keys named after the JSON
// field names, sorted so the output is stable:
//
//	FIELD                         VALUE
//	-----                         -----
//	definitions.CMAKE_BUILD_TYPE  Debug
//	recipe                        sisl/1.0.4
//
// Readers decode JSON or YAML from local files or http(s) URLs; the format
// is chosen from the file extension:
//
//	plan, err := serializer.FromFile[build.Plan](ctx, "plan.yaml")
//
// Remote documents are fetched with HttpReader, which applies connect, TLS
// handshake and overall timeouts from pkg/defaults.
package serializer
