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

// Package recipe models the package recipes and their option resolution.
//
// # Overview
//
// A Recipe declares the settings it depends on (arch, os, compiler,
// build_type), its options with defaults and optional deletion rules, its
// ordered dependencies and the layout rules used to assemble the install
// tree. Two recipes ship in the embedded catalog: sds_metrics and sisl.
//
// # Resolution
//
// Resolve turns raw "True"/"False" strings into Toggle values:
//
//	rec, _ := recipe.Load("sisl")
//	res, err := recipe.Resolve(rec, recipe.Request{
//	    Settings: map[recipe.Setting]string{recipe.SettingCompiler: "clang"},
//	    Options:  map[recipe.OptionName]string{recipe.OptionSanitize: "True"},
//	})
//
// Rules applied, in order:
//
//   - values outside a domain fail with INVALID_OPTION_VALUE
//   - deletion rules remove options (coverage without gcc, fPIC on Windows)
//   - sanitize=True forces coverage to False
//
// A removed option reads back as ToggleUnset and Lookup reports
// UNDEFINED_OPTION for it, which is distinct from ToggleOff.
//
// # Profiles
//
// Profiles are TOML files with [settings] and [options] tables. Explicit
// key=value overrides take precedence over the profile.
package recipe
