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

// Package packager assembles a package install tree from build outputs.
//
// A Packager applies an ordered list of layout rules. Each rule walks a
// source directory of the build tree, selects files by glob pattern and
// copies them under a destination directory of the install tree, either
// keeping their relative path or flattening them to the base name. Later
// rules overwrite files written by earlier ones.
//
// After the rules run, the install tree is hashed and a manifest.txt file
// is written at its root:
//
//	3b4c...e1  include/sisl/fds/bitset.hpp
//	9a0f...7c  lib/libsisl.a
//
// The manifest carries no timestamp, so applying the same rules to the same
// build tree twice yields a byte-identical install tree.
//
// Both trees are go-billy filesystems:
//
//	p := packager.New(osfs.New("build"), osfs.New("package"))
//	m, err := p.Apply(ctx, r.Layout)
//
// Verify recomputes checksums against an existing manifest.
package packager
