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

package packager

import (
	"context"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

func seed(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func readAll(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func listFiles(t *testing.T, fs billy.Filesystem) map[string]string {
	t.Helper()
	m, err := Scan(context.Background(), fs, 1)
	require.NoError(t, err)
	out := make(map[string]string, len(m.Files))
	for _, e := range m.Files {
		out[e.Path] = readAll(t, fs, e.Path)
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{"*.hpp", "bitset.hpp", true},
		{"*.hpp", "fds/bitset.hpp", true},
		{"*.hpp", "fds/bitset.h", false},
		{"*.a", "build/lib/libsisl.a", true},
		{"fds/*.hpp", "fds/bitset.hpp", true},
		{"fds/*.hpp", "bitset.hpp", false},
		{"[", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.pattern, tt.rel))
		})
	}
}

func TestApply_FlattenAndKeepPath(t *testing.T) {
	build := seed(t, map[string]string{
		"include/fds/bitset.hpp":        "bitset",
		"include/utility/enum.hpp":      "enum",
		"include/c/api.h":               "api",
		"build/lib/libsisl.a":           "archive",
		"build/cmake/sisl-config.cmake": "config",
		"src/main.cpp":                  "main",
	})
	install := memfs.New()

	r, err := recipe.Load("sisl")
	require.NoError(t, err)

	m, err := New(build, install).Apply(context.Background(), r.Layout)
	require.NoError(t, err)

	want := []string{
		"cmake/sisl-config.cmake",
		"include/sisl/c/api.h",
		"include/sisl/fds/bitset.hpp",
		"include/sisl/utility/enum.hpp",
		"lib/libsisl.a",
	}
	if diff := cmp.Diff(want, m.Paths()); diff != "" {
		t.Errorf("installed paths mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "archive", readAll(t, install, "lib/libsisl.a"))
	assert.Len(t, m.Rules, len(r.Layout))
}

func TestApply_FlattenedHeaders(t *testing.T) {
	build := seed(t, map[string]string{
		"src/include/sds_metrics/metrics.hpp": "metrics",
		"src/include/histogram.hpp":           "histogram",
		"build/libsds_metrics.a":              "archive",
	})
	install := memfs.New()

	r, err := recipe.Load("sds_metrics")
	require.NoError(t, err)

	m, err := New(build, install).Apply(context.Background(), r.Layout)
	require.NoError(t, err)

	assert.Equal(t, []string{"include/histogram.hpp", "include/metrics.hpp", "lib/libsds_metrics.a"}, m.Paths())
}

func TestApply_LastRuleWins(t *testing.T) {
	build := seed(t, map[string]string{
		"first/config.h":  "first",
		"second/config.h": "second",
	})
	install := memfs.New()
	rules := []recipe.LayoutRule{
		{Pattern: "*.h", Src: "first", Dst: "include", Flatten: true},
		{Pattern: "*.h", Src: "second", Dst: "include", Flatten: true},
	}

	m, err := New(build, install).Apply(context.Background(), rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"include/config.h"}, m.Paths())
	assert.Equal(t, "second", readAll(t, install, "include/config.h"))
}

func TestApply_ZeroMatches(t *testing.T) {
	build := seed(t, map[string]string{"README.md": "readme"})
	install := memfs.New()
	rules := []recipe.LayoutRule{
		{Pattern: "*.dll", Dst: "lib", Flatten: true},
		{Pattern: "*.hpp", Src: "missing", Dst: "include"},
	}

	m, err := New(build, install).Apply(context.Background(), rules)
	require.NoError(t, err)

	assert.Empty(t, m.Files)
	require.Len(t, m.Rules, 2)
	assert.Empty(t, m.Rules[0].Copied)
	assert.Empty(t, m.Rules[1].Copied)
	assert.Empty(t, readAll(t, install, ManifestFile))
}

func TestApply_SymlinkedSharedObject(t *testing.T) {
	build := seed(t, map[string]string{"build/libsisl.so.1.0": "elf"})
	require.NoError(t, build.Symlink("libsisl.so.1.0", "build/libsisl.so"))
	install := memfs.New()

	m, err := New(build, install).Apply(context.Background(), []recipe.LayoutRule{
		{Pattern: "*.so", Dst: "lib", Flatten: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/libsisl.so"}, m.Paths())
	assert.Equal(t, "elf", readAll(t, install, "lib/libsisl.so"))
}

func TestApply_DanglingSymlink(t *testing.T) {
	build := memfs.New()
	require.NoError(t, build.Symlink("libgone.so.1", "libgone.so"))

	_, err := New(build, memfs.New()).Apply(context.Background(), []recipe.LayoutRule{
		{Pattern: "*.so", Dst: "lib", Flatten: true},
	})
	require.Error(t, err)
	assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeInternal), "got %v", err)
}

func TestApply_Idempotent(t *testing.T) {
	build := seed(t, map[string]string{
		"include/fds/bitset.hpp": "bitset",
		"build/libsisl.so":       "shared",
		"build/libsisl.a":        "archive",
	})
	r, err := recipe.Load("sisl")
	require.NoError(t, err)

	install := memfs.New()
	p := New(build, install, WithConcurrency(2))

	_, err = p.Apply(context.Background(), r.Layout)
	require.NoError(t, err)
	first := listFiles(t, install)
	firstManifest := readAll(t, install, ManifestFile)

	_, err = p.Apply(context.Background(), r.Layout)
	require.NoError(t, err)

	if diff := cmp.Diff(first, listFiles(t, install)); diff != "" {
		t.Errorf("install tree changed on reapply (-first +second):\n%s", diff)
	}
	assert.Equal(t, firstManifest, readAll(t, install, ManifestFile))
}

func TestApply_Cancelled(t *testing.T) {
	build := seed(t, map[string]string{"libsisl.a": "archive"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(build, memfs.New()).Apply(ctx, []recipe.LayoutRule{{Pattern: "*.a", Dst: "lib", Flatten: true}})
	require.Error(t, err)
	assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeTimeout))
}

func TestApply_SkipDirs(t *testing.T) {
	build := seed(t, map[string]string{
		"build/libsisl.a":       "fresh",
		"package/lib/libsisl.a": "stale",
		".git/objects/x.a":      "object",
	})
	install := memfs.New()

	m, err := New(build, install, WithSkipDirs("package", ".git", ".")).Apply(context.Background(),
		[]recipe.LayoutRule{{Pattern: "*.a", Dst: "lib", Flatten: true}})
	require.NoError(t, err)

	require.Len(t, m.Rules, 1)
	assert.Equal(t, []string{"lib/libsisl.a"}, m.Rules[0].Copied)
	assert.Equal(t, "fresh", readAll(t, install, "lib/libsisl.a"))
}
