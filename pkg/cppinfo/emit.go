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
	"github.com/sbinmalek/sisl/pkg/defaults"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

// Flags and libraries added for consumers.
const (
	FlagSanitizeAddress   = "-fsanitize=address"
	FlagSanitizeUndefined = "-fsanitize=undefined"
	FlagExportDynamic     = "-rdynamic"
	FlagNoUnusedTypedefs  = "-Wno-unused-local-typedefs"
	LibCoverageRuntime    = "gcov"
	SystemLibDynamicLoad  = "dl"
)

// ConsumerInfo lists what a downstream build needs to use a package.
type ConsumerInfo struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe          string   `json:"recipe" yaml:"recipe"`
	Libs            []string `json:"libs" yaml:"libs"`
	SystemLibs      []string `json:"systemLibs" yaml:"systemLibs"`
	CXXFlags        []string `json:"cxxFlags" yaml:"cxxFlags"`
	SharedLinkFlags []string `json:"sharedLinkFlags" yaml:"sharedLinkFlags"`
	ExeLinkFlags    []string `json:"exeLinkFlags" yaml:"exeLinkFlags"`
	IncludeDirs     []string `json:"includeDirs" yaml:"includeDirs"`
	LibDirs         []string `json:"libDirs" yaml:"libDirs"`
	BuildDirs       []string `json:"buildDirs" yaml:"buildDirs"`
}

// Emit computes consumer info from resolved options. discovered is the
// library list found in the install tree; it is used only by recipes that
// collect libraries.
func Emit(r *recipe.Recipe, res *recipe.Resolved, discovered []string) *ConsumerInfo {
	info := &ConsumerInfo{
		Recipe:          r.Reference(),
		Libs:            []string{},
		SystemLibs:      []string{},
		CXXFlags:        []string{},
		SharedLinkFlags: []string{},
		ExeLinkFlags:    []string{},
		IncludeDirs:     []string{defaults.IncludeDir},
		LibDirs:         []string{defaults.LibDir},
		BuildDirs:       []string{},
	}
	if r.CollectLibs {
		info.Libs = append(info.Libs, discovered...)
	}
	for _, rule := range r.Layout {
		if rule.Dst == defaults.CMakeDir {
			info.BuildDirs = append(info.BuildDirs, defaults.CMakeDir)
			break
		}
	}

	switch {
	case res.Sanitize():
		info.SharedLinkFlags = append(info.SharedLinkFlags, FlagSanitizeAddress, FlagSanitizeUndefined)
		info.ExeLinkFlags = append(info.ExeLinkFlags, FlagSanitizeAddress, FlagSanitizeUndefined)
	case res.CoverageEnabled():
		info.Libs = append(info.Libs, LibCoverageRuntime)
	}

	if r.HasSetting(recipe.SettingOS) && res.Setting(recipe.SettingOS) == recipe.OSLinux {
		info.ExeLinkFlags = append(info.ExeLinkFlags, FlagExportDynamic)
		info.SystemLibs = append(info.SystemLibs, SystemLibDynamicLoad)
	}

	info.CXXFlags = append(info.CXXFlags, FlagNoUnusedTypedefs)
	return info
}
