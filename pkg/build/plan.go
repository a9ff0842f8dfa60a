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

package build

import (
	"maps"
	"slices"

	"k8s.io/utils/ptr"

	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

// Definition keys passed to the build system.
const (
	DefCoverage         = "CONAN_BUILD_COVERAGE"
	DefSanitizer        = "MEMORY_SANITIZER_ON"
	DefBuildType        = "CMAKE_BUILD_TYPE"
	DefSharedLibs       = "BUILD_SHARED_LIBS"
	DefPositionIndepend = "CMAKE_POSITION_INDEPENDENT_CODE"
)

// Definition values.
const (
	On  = "ON"
	Off = "OFF"
)

// CoverageTarget is the test target selected when coverage is enabled.
const CoverageTarget = "coverage"

// Definitions is the flat key/value configuration handed to the build tool.
type Definitions map[string]string

// Keys returns the definition keys in sorted order.
func (d Definitions) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}

// Args renders the definitions as sorted -DKEY=VALUE arguments.
func (d Definitions) Args() []string {
	args := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		args = append(args, "-D"+k+"="+d[k])
	}
	return args
}

// Plan is the outcome of translating resolved options into build inputs.
type Plan struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe      string      `json:"recipe" yaml:"recipe"`
	Definitions Definitions `json:"definitions" yaml:"definitions"`

	// TestTarget is nil when the default test target should run.
	TestTarget *string `json:"testTarget" yaml:"testTarget"`
}

// NewPlan derives the build definitions and test target from resolved options.
func NewPlan(r *recipe.Recipe, res *recipe.Resolved) *Plan {
	defs := Definitions{
		DefCoverage:  Off,
		DefSanitizer: Off,
	}
	var target *string

	if res.Sanitize() {
		defs[DefSanitizer] = On
	}
	if res.CoverageEnabled() {
		defs[DefCoverage] = On
		target = ptr.To(CoverageTarget)
	}
	if res.Setting(recipe.SettingBuildType) == recipe.BuildTypeDebug {
		defs[DefBuildType] = recipe.BuildTypeDebug
	}

	if r.HasOption(recipe.OptionShared) {
		defs[DefSharedLibs] = onOff(res.Toggle(recipe.OptionShared))
	}
	if fpic := res.Toggle(recipe.OptionFPIC); fpic.IsSet() {
		defs[DefPositionIndepend] = onOff(fpic)
	}

	return &Plan{
		Recipe:      r.Reference(),
		Definitions: defs,
		TestTarget:  target,
	}
}

// Target returns the selected test target, or "" for the default.
func (p *Plan) Target() string {
	return ptr.Deref(p.TestTarget, "")
}

func onOff(t recipe.Toggle) string {
	if t.IsOn() {
		return On
	}
	return Off
}
