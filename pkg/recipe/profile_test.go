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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
[settings]
os = "Linux"
compiler = "gcc"
build_type = "Debug"

[options]
coverage = "True"
`)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Debug", p.Settings["build_type"])
	assert.Equal(t, "True", p.Options["coverage"])
}

func TestLoadProfile_UnknownTable(t *testing.T) {
	path := writeProfile(t, "[env]\nCC = \"gcc\"\n")
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"os=Linux", " compiler = clang "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"os": "Linux", "compiler": "clang"}, got)

	_, err = ParseAssignments([]string{"os"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=Linux"})
	assert.Error(t, err)
}

func TestNewRequest_OverridesWin(t *testing.T) {
	p := &Profile{
		Settings: map[string]string{"compiler": "gcc", "os": "Linux"},
		Options:  map[string]string{"coverage": "True"},
	}
	req := NewRequest(p,
		map[string]string{"compiler": "clang"},
		map[string]string{"sanitize": "True"},
	)

	assert.Equal(t, map[Setting]string{SettingCompiler: "clang", SettingOS: "Linux"}, req.Settings)
	assert.Equal(t, map[OptionName]string{OptionCoverage: "True", OptionSanitize: "True"}, req.Options)
}

func TestNewRequest_NilProfile(t *testing.T) {
	req := NewRequest(nil, nil, nil)
	assert.Empty(t, req.Settings)
	assert.Empty(t, req.Options)
}
