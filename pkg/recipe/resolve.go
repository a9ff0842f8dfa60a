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
	"log/slog"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
)

// Request carries raw, unvalidated option and setting values.
// Missing declared settings fall back to DefaultSettings; missing options
// fall back to their declared default.
type Request struct {
	Settings map[Setting]string
	Options  map[OptionName]string
}

// Resolved is the immutable result of option resolution.
type Resolved struct {
	recipe   string
	settings map[Setting]string
	options  map[OptionName]Toggle
	declared map[OptionName]bool
}

// OptionValue is one resolved option, used for display.
type OptionValue struct {
	Name  OptionName `json:"name" yaml:"name"`
	Value Toggle     `json:"value" yaml:"value"`
}

// Resolve validates the request against the recipe and applies deletion rules
// and precedence. Every out-of-domain value is reported in a single
// INVALID_OPTION_VALUE error.
func Resolve(r *Recipe, req Request) (*Resolved, error) {
	if r == nil {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "recipe cannot be nil")
	}

	var errs *multierror.Error

	settings := make(map[Setting]string, len(r.Settings))
	for _, s := range slices.Sorted(maps.Keys(req.Settings)) {
		v := req.Settings[s]
		if !s.IsValid() {
			errs = multierror.Append(errs, fmt.Errorf("unknown setting %q", s))
			continue
		}
		if !s.Allows(v) {
			errs = multierror.Append(errs, fmt.Errorf("setting %s=%q not in %v", s, v, SettingDomain(s)))
			continue
		}
		if !r.HasSetting(s) {
			slog.Debug("ignoring setting not declared by recipe", "recipe", r.Name, "setting", s)
			continue
		}
		settings[s] = v
	}
	defaults := DefaultSettings()
	for _, s := range r.Settings {
		if _, ok := settings[s]; !ok {
			settings[s] = defaults[s]
		}
	}

	declared := make(map[OptionName]bool, len(r.Options))
	for _, o := range r.Options {
		declared[o.Name] = true
	}

	requested := make(map[OptionName]Toggle, len(req.Options))
	for _, name := range slices.Sorted(maps.Keys(req.Options)) {
		if !declared[name] {
			errs = multierror.Append(errs, fmt.Errorf("option %q is not declared by %s", name, r.Name))
			continue
		}
		t, err := ParseToggle(req.Options[name])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("option %s: %w", name, err))
			continue
		}
		requested[name] = t
	}

	if err := errs.ErrorOrNil(); err != nil {
		resolutionsTotal.WithLabelValues(r.Name, "invalid").Inc()
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeInvalidOptionValue,
			"invalid option value", err, map[string]any{"recipe": r.Name})
	}

	options := make(map[OptionName]Toggle, len(r.Options))
	for _, o := range r.Options {
		if o.DeleteIf.Applies(settings) {
			options[o.Name] = ToggleUnset
			optionDeletionsTotal.WithLabelValues(r.Name, string(o.Name)).Inc()
			slog.Debug("option removed from active set", "recipe", r.Name, "option", o.Name)
			continue
		}
		if t, ok := requested[o.Name]; ok {
			options[o.Name] = t
			continue
		}
		t, err := ParseToggle(o.Default)
		if err != nil {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeInvalidOptionValue,
				fmt.Sprintf("option %s has invalid default", o.Name), err)
		}
		options[o.Name] = t
	}

	// sanitize wins over coverage; a deleted coverage option stays unset
	if options[OptionSanitize].IsOn() && options[OptionCoverage].IsSet() {
		if options[OptionCoverage].IsOn() {
			slog.Debug("coverage disabled by sanitize", "recipe", r.Name)
		}
		options[OptionCoverage] = ToggleOff
	}

	resolutionsTotal.WithLabelValues(r.Name, "ok").Inc()

	return &Resolved{
		recipe:   r.Name,
		settings: settings,
		options:  options,
		declared: declared,
	}, nil
}

// Recipe returns the name of the recipe the values were resolved for.
func (r *Resolved) Recipe() string {
	return r.recipe
}

// Setting returns the value of a declared setting, or "" if undeclared.
func (r *Resolved) Setting(s Setting) string {
	return r.settings[s]
}

// Settings returns a copy of the resolved settings.
func (r *Resolved) Settings() map[Setting]string {
	return maps.Clone(r.settings)
}

// Toggle returns the option state. Deleted and undeclared options are ToggleUnset.
func (r *Resolved) Toggle(name OptionName) Toggle {
	return r.options[name]
}

// Lookup returns the option state, failing with UNDEFINED_OPTION when the
// option is not in the active set.
func (r *Resolved) Lookup(name OptionName) (Toggle, error) {
	if !r.declared[name] {
		return ToggleUnset, sislerrors.NewWithContext(sislerrors.ErrCodeUndefinedOption,
			fmt.Sprintf("option %q is not declared", name),
			map[string]any{"recipe": r.recipe, "option": string(name)})
	}
	t := r.options[name]
	if !t.IsSet() {
		return ToggleUnset, sislerrors.NewWithContext(sislerrors.ErrCodeUndefinedOption,
			fmt.Sprintf("option %q was removed for these settings", name),
			map[string]any{"recipe": r.recipe, "option": string(name)})
	}
	return t, nil
}

// Sanitize reports whether sanitizer instrumentation is on.
func (r *Resolved) Sanitize() bool {
	return r.options[OptionSanitize].IsOn()
}

// CoverageEnabled reports whether coverage instrumentation is on: the
// compiler is gcc, the option survived deletion and its value is True.
func (r *Resolved) CoverageEnabled() bool {
	return r.settings[SettingCompiler] == CompilerGCC && r.options[OptionCoverage].IsOn()
}

// Options returns the resolved options sorted by name.
func (r *Resolved) Options() []OptionValue {
	out := make([]OptionValue, 0, len(r.options))
	for _, name := range slices.Sorted(maps.Keys(r.options)) {
		out = append(out, OptionValue{Name: name, Value: r.options[name]})
	}
	return out
}

// Resolution is the document form of a Resolved value.
type Resolution struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe          string             `json:"recipe" yaml:"recipe"`
	Settings        map[Setting]string `json:"settings" yaml:"settings"`
	Options         []OptionValue      `json:"options" yaml:"options"`
	CoverageEnabled bool               `json:"coverageEnabled" yaml:"coverageEnabled"`
}

// Document renders the resolved values for output.
func (r *Resolved) Document() *Resolution {
	doc := &Resolution{
		Recipe:          r.recipe,
		Settings:        r.Settings(),
		Options:         r.Options(),
		CoverageEnabled: r.CoverageEnabled(),
	}
	doc.Init(header.KindResolution, "", "")
	return doc
}
