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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
)

func mustLoad(t *testing.T, name string) *Recipe {
	t.Helper()
	r, err := Load(name)
	require.NoError(t, err)
	return r
}

func TestResolve_CoverageRemovedForNonGCC(t *testing.T) {
	for _, name := range []string{"sds_metrics", "sisl"} {
		for _, compiler := range SettingDomain(SettingCompiler) {
			if compiler == CompilerGCC {
				continue
			}
			t.Run(name+"/"+compiler, func(t *testing.T) {
				res, err := Resolve(mustLoad(t, name), Request{
					Settings: map[Setting]string{SettingCompiler: compiler},
					Options:  map[OptionName]string{OptionCoverage: ValueTrue},
				})
				require.NoError(t, err)

				assert.Equal(t, ToggleUnset, res.Toggle(OptionCoverage))
				assert.False(t, res.CoverageEnabled())

				_, err = res.Lookup(OptionCoverage)
				require.Error(t, err)
				assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeUndefinedOption))
			})
		}
	}
}

func TestResolve_SanitizeForcesCoverageOff(t *testing.T) {
	for _, coverage := range []string{ValueTrue, ValueFalse} {
		t.Run("coverage="+coverage, func(t *testing.T) {
			res, err := Resolve(mustLoad(t, "sisl"), Request{
				Settings: map[Setting]string{SettingCompiler: CompilerGCC},
				Options: map[OptionName]string{
					OptionCoverage: coverage,
					OptionSanitize: ValueTrue,
				},
			})
			require.NoError(t, err)

			got, err := res.Lookup(OptionCoverage)
			require.NoError(t, err)
			assert.Equal(t, ToggleOff, got)
			assert.True(t, res.Sanitize())
			assert.False(t, res.CoverageEnabled())
		})
	}
}

func TestResolve_SanitizeKeepsDeletedCoverageUnset(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sds_metrics"), Request{
		Settings: map[Setting]string{SettingCompiler: "clang"},
		Options:  map[OptionName]string{OptionSanitize: ValueTrue},
	})
	require.NoError(t, err)
	assert.Equal(t, ToggleUnset, res.Toggle(OptionCoverage))
}

func TestResolve_CoverageEnabled(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sds_metrics"), Request{
		Settings: map[Setting]string{SettingCompiler: CompilerGCC},
		Options:  map[OptionName]string{OptionCoverage: ValueTrue},
	})
	require.NoError(t, err)
	assert.True(t, res.CoverageEnabled())
	assert.False(t, res.Sanitize())
}

func TestResolve_Defaults(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sisl"), Request{})
	require.NoError(t, err)

	assert.Equal(t, ToggleOff, res.Toggle(OptionShared))
	assert.Equal(t, ToggleOn, res.Toggle(OptionFPIC))
	assert.Equal(t, ToggleOff, res.Toggle(OptionCoverage))
	assert.Equal(t, ToggleOff, res.Toggle(OptionSanitize))
	assert.Equal(t, DefaultSettings(), res.Settings())
}

func TestResolve_FPICRemovedOnWindows(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sisl"), Request{
		Settings: map[Setting]string{SettingOS: OSWindows},
	})
	require.NoError(t, err)

	_, err = res.Lookup(OptionFPIC)
	assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeUndefinedOption))
}

func TestResolve_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "lowercase false",
			req:  Request{Options: map[OptionName]string{OptionCoverage: "false"}},
		},
		{
			name: "lowercase true",
			req:  Request{Options: map[OptionName]string{OptionSanitize: "true"}},
		},
		{
			name: "empty value",
			req:  Request{Options: map[OptionName]string{OptionShared: ""}},
		},
		{
			name: "undeclared option",
			req:  Request{Options: map[OptionName]string{"lto": ValueTrue}},
		},
		{
			name: "setting out of domain",
			req:  Request{Settings: map[Setting]string{SettingOS: "Solaris"}},
		},
		{
			name: "unknown setting",
			req:  Request{Settings: map[Setting]string{"compiler.version": "9"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(mustLoad(t, "sisl"), tt.req)
			require.Error(t, err)
			assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeInvalidOptionValue), "got %v", err)
		})
	}
}

func TestResolve_ReportsAllInvalidValues(t *testing.T) {
	_, err := Resolve(mustLoad(t, "sisl"), Request{
		Settings: map[Setting]string{SettingOS: "Solaris"},
		Options:  map[OptionName]string{OptionCoverage: "yes", OptionSanitize: "no"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Solaris")
	assert.Contains(t, err.Error(), "yes")
	assert.Contains(t, err.Error(), "no")
}

func TestResolve_IgnoresUndeclaredSettings(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sds_metrics"), Request{
		Settings: map[Setting]string{SettingOS: OSLinux, SettingBuildType: BuildTypeDebug},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Setting(SettingOS))
	assert.Empty(t, res.Setting(SettingBuildType))
	assert.Equal(t, CompilerGCC, res.Setting(SettingCompiler))
}

func TestResolved_LookupUndeclared(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sds_metrics"), Request{})
	require.NoError(t, err)

	_, err = res.Lookup(OptionShared)
	require.Error(t, err)
	assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeUndefinedOption))
	assert.Contains(t, err.Error(), "not declared")
}

func TestResolved_OptionsSorted(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sisl"), Request{})
	require.NoError(t, err)

	got := res.Options()
	names := make([]OptionName, 0, len(got))
	for _, o := range got {
		names = append(names, o.Name)
	}
	assert.Equal(t, []OptionName{OptionCoverage, OptionFPIC, OptionSanitize, OptionShared}, names)
}

func TestResolve_NilRecipe(t *testing.T) {
	_, err := Resolve(nil, Request{})
	assert.True(t, sislerrors.HasCode(err, sislerrors.ErrCodeInvalidRequest))
}

func TestResolved_Document(t *testing.T) {
	res, err := Resolve(mustLoad(t, "sds_metrics"), Request{
		Settings: map[Setting]string{SettingCompiler: "clang"},
		Options:  map[OptionName]string{OptionSanitize: ValueTrue},
	})
	require.NoError(t, err)

	doc := res.Document()
	assert.Equal(t, header.KindResolution, doc.Kind)
	assert.Equal(t, "sds_metrics", doc.Recipe)
	assert.Equal(t, map[Setting]string{SettingCompiler: "clang"}, doc.Settings)
	assert.False(t, doc.CoverageEnabled)
	assert.Equal(t, []OptionValue{
		{Name: OptionCoverage, Value: ToggleUnset},
		{Name: OptionSanitize, Value: ToggleOn},
	}, doc.Options)
}
