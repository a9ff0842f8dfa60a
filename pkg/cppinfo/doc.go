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

// Package cppinfo computes what downstream builds need to consume a package.
//
// Emit is a pure function of the recipe, its resolved options and the
// libraries discovered in the install tree. It never fails and is
// recomputed on every query:
//
//	libs, err := cppinfo.CollectLibs(osfs.New("package"), "lib")
//	info := cppinfo.Emit(r, res, libs)
//
// Sanitizer instrumentation adds the address and undefined-behavior
// sanitizer flags to both link flag lists. Otherwise enabled coverage adds
// the gcov runtime library. Linux targets export dynamic symbols and link
// libdl. The unused-local-typedefs warning is always silenced.
package cppinfo
