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
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// Toggle is the resolved state of a boolean-like option.
//
// ToggleUnset means the option was removed from the active set by a deletion
// rule. It is never equivalent to ToggleOff: callers that need to tell the two
// apart use Resolved.Lookup.
type Toggle int

const (
	ToggleUnset Toggle = iota
	ToggleOff
	ToggleOn
)

// Raw option values accepted on input.
const (
	ValueTrue  = "True"
	ValueFalse = "False"
)

// ParseToggle converts a raw option value. Only the exact strings "True" and
// "False" are in the domain; anything else, including "true" or "false", is
// rejected.
func ParseToggle(s string) (Toggle, error) {
	switch s {
	case ValueTrue:
		return ToggleOn, nil
	case ValueFalse:
		return ToggleOff, nil
	default:
		return ToggleUnset, fmt.Errorf("%q is not one of [%s %s]", s, ValueTrue, ValueFalse)
	}
}

// String returns "True", "False" or "Unset".
func (t Toggle) String() string {
	switch t {
	case ToggleOn:
		return ValueTrue
	case ToggleOff:
		return ValueFalse
	default:
		return "Unset"
	}
}

// IsOn reports whether the option is present and enabled.
func (t Toggle) IsOn() bool {
	return t == ToggleOn
}

// IsSet reports whether the option is still in the active set.
func (t Toggle) IsSet() bool {
	return t != ToggleUnset
}

// MarshalText implements encoding.TextMarshaler.
func (t Toggle) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// OptionName identifies a recipe option.
type OptionName string

// Options recognized by the recipes.
const (
	OptionShared   OptionName = "shared"
	OptionFPIC     OptionName = "fPIC"
	OptionCoverage OptionName = "coverage"
	OptionSanitize OptionName = "sanitize"
)

// Setting identifies an ambient setting.
type Setting string

// Settings recognized by the recipes.
const (
	SettingArch      Setting = "arch"
	SettingOS        Setting = "os"
	SettingCompiler  Setting = "compiler"
	SettingBuildType Setting = "build_type"
)

// Setting values the recipes branch on.
const (
	CompilerGCC    = "gcc"
	OSLinux        = "Linux"
	OSWindows      = "Windows"
	BuildTypeDebug = "Debug"
)

var settingDomains = map[Setting][]string{
	SettingArch:      {"x86", "x86_64", "armv7", "armv8"},
	SettingOS:        {OSLinux, OSWindows, "Macos", "FreeBSD"},
	SettingCompiler:  {CompilerGCC, "clang", "apple-clang", "Visual Studio"},
	SettingBuildType: {BuildTypeDebug, "Release", "RelWithDebInfo", "MinSizeRel"},
}

// SupportedSettings returns every known setting in a stable order.
func SupportedSettings() []Setting {
	return []Setting{SettingArch, SettingOS, SettingCompiler, SettingBuildType}
}

// SettingDomain returns the allowed values for a setting.
func SettingDomain(s Setting) []string {
	return slices.Clone(settingDomains[s])
}

// IsValid reports whether the setting is known.
func (s Setting) IsValid() bool {
	_, ok := settingDomains[s]
	return ok
}

// Allows reports whether value is in the setting's domain.
func (s Setting) Allows(value string) bool {
	return slices.Contains(settingDomains[s], value)
}

// DefaultSettings are applied for declared settings the caller leaves empty.
func DefaultSettings() map[Setting]string {
	return map[Setting]string{
		SettingArch:      "x86_64",
		SettingOS:        OSLinux,
		SettingCompiler:  CompilerGCC,
		SettingBuildType: "Release",
	}
}

// DeletionRule removes an option from the active set depending on a setting.
// With Unless set, the option is removed when the setting differs from it.
// With When set, the option is removed when the setting equals it.
type DeletionRule struct {
	Setting Setting `json:"setting" yaml:"setting"`
	Unless  string  `json:"unless,omitempty" yaml:"unless,omitempty"`
	When    string  `json:"when,omitempty" yaml:"when,omitempty"`
}

// Applies reports whether the rule removes the option under the given settings.
func (d *DeletionRule) Applies(settings map[Setting]string) bool {
	if d == nil {
		return false
	}
	v := settings[d.Setting]
	if d.Unless != "" && v != d.Unless {
		return true
	}
	if d.When != "" && v == d.When {
		return true
	}
	return false
}

// Option declares a recipe option. The domain is always {"True","False"}.
type Option struct {
	Name     OptionName    `json:"name" yaml:"name"`
	Default  string        `json:"default" yaml:"default"`
	DeleteIf *DeletionRule `json:"deleteIf,omitempty" yaml:"deleteIf,omitempty"`
}

// Dependency is a name/version@user/channel requirement.
type Dependency struct {
	Name    string
	Version string
	User    string
	Channel string
}

// ParseDependency parses "name/version@user/channel".
func ParseDependency(ref string) (Dependency, error) {
	nameVersion, userChannel, ok := strings.Cut(strings.TrimSpace(ref), "@")
	if !ok {
		return Dependency{}, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("dependency %q: missing @user/channel", ref))
	}
	name, version, ok1 := strings.Cut(nameVersion, "/")
	user, channel, ok2 := strings.Cut(userChannel, "/")
	if !ok1 || !ok2 || name == "" || version == "" || user == "" || channel == "" {
		return Dependency{}, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("dependency %q: expected name/version@user/channel", ref))
	}
	if strings.ContainsAny(version+channel, "/@") {
		return Dependency{}, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("dependency %q: too many components", ref))
	}
	return Dependency{Name: name, Version: version, User: user, Channel: channel}, nil
}

// String renders the dependency reference.
func (d Dependency) String() string {
	return fmt.Sprintf("%s/%s@%s/%s", d.Name, d.Version, d.User, d.Channel)
}

// MarshalText implements encoding.TextMarshaler.
func (d Dependency) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dependency) UnmarshalText(b []byte) error {
	parsed, err := ParseDependency(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML decodes a dependency from its reference string.
func (d *Dependency) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// LayoutRule copies files matching Pattern from Src in the build tree to Dst
// in the install tree. Flatten drops the path relative to Src.
type LayoutRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Src     string `json:"src,omitempty" yaml:"src,omitempty"`
	Dst     string `json:"dst" yaml:"dst"`
	Flatten bool   `json:"flatten" yaml:"flatten"`
}

// String renders the rule for logs.
func (r LayoutRule) String() string {
	return fmt.Sprintf("%s: %s -> %s (flatten=%t)", r.Pattern, r.Src, r.Dst, r.Flatten)
}
