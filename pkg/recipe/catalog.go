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

package recipe

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
)

//go:embed data/*.yaml
var catalogFS embed.FS

const catalogDir = "data"

// Names returns the names of the recipes in the embedded catalog, sorted.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(catalogFS, catalogDir)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to read recipe catalog", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names, nil
}

// Load parses a recipe from the embedded catalog. Every call returns a fresh
// instance; nothing is cached between invocations.
func Load(name string) (*Recipe, error) {
	content, err := catalogFS.ReadFile(path.Join(catalogDir, name+".yaml"))
	if err != nil {
		names, _ := Names()
		return nil, sislerrors.NewWithContext(sislerrors.ErrCodeNotFound,
			fmt.Sprintf("recipe %q not found", name),
			map[string]any{"available": names})
	}
	return Parse(content)
}

// Parse decodes and validates a YAML recipe document. Unknown fields are rejected.
func Parse(content []byte) (*Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest, "failed to parse recipe", err)
	}
	if r.Kind == "" {
		r.Kind = header.KindRecipe
	}
	if r.Kind != header.KindRecipe {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unexpected document kind %q", r.Kind))
	}
	if r.APIVersion == "" {
		r.APIVersion = header.APIVersion
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
