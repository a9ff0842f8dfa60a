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

package cppinfo

import (
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// CollectLibs returns the library names found directly in dir, sorted and
// deduplicated. See LibName for the naming rule. A missing dir yields an
// empty list.
func CollectLibs(fs billy.Filesystem, dir string) ([]string, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeInternal, "failed to list library directory", err,
			map[string]any{"dir": dir})
	}

	libs := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := LibName(e.Name()); ok {
			libs = append(libs, name)
		}
	}
	slices.Sort(libs)
	return slices.Compact(libs), nil
}

// LibName extracts the link name from a library file name. Files ending in
// .a, .so, .dylib, .bc or .lib qualify; a leading "lib" is dropped except
// for .lib import libraries. So libfoo.a and foo.a both yield "foo", while
// libfoo.lib yields "libfoo". Versioned shared objects (libfoo.so.1) and
// .dll runtime files are not link inputs and are skipped.
func LibName(file string) (string, bool) {
	for _, ext := range []string{".a", ".so", ".dylib", ".bc", ".lib"} {
		base, ok := strings.CutSuffix(file, ext)
		if !ok {
			continue
		}
		if ext != ".lib" {
			base = strings.TrimPrefix(base, "lib")
		}
		return base, base != ""
	}
	return "", false
}
