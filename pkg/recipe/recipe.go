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

	"github.com/hashicorp/go-multierror"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/version"
)

// Recipe describes how to build, test and package one versioned library.
type Recipe struct {
	header.Header `json:",inline" yaml:",inline"`

	Name           string       `json:"name" yaml:"name"`
	Version        string       `json:"version" yaml:"version"`
	License        string       `json:"license,omitempty" yaml:"license,omitempty"`
	URL            string       `json:"url,omitempty" yaml:"url,omitempty"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Settings       []Setting    `json:"settings" yaml:"settings"`
	Options        []Option     `json:"options" yaml:"options"`
	Requires       []Dependency `json:"requires" yaml:"requires"`
	ExportsSources []string     `json:"exportsSources,omitempty" yaml:"exportsSources,omitempty"`
	Layout         []LayoutRule `json:"layout" yaml:"layout"`

	// CollectLibs derives the consumer library list from the install tree.
	CollectLibs bool `json:"collectLibs" yaml:"collectLibs"`
}

// Reference returns "name/version".
func (r *Recipe) Reference() string {
	return r.Name + "/" + r.Version
}

// HasSetting reports whether the recipe declares the setting.
func (r *Recipe) HasSetting(s Setting) bool {
	return slices.Contains(r.Settings, s)
}

// Option returns the declaration of the named option.
func (r *Recipe) Option(name OptionName) (Option, bool) {
	for _, o := range r.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// HasOption reports whether the recipe declares the option.
func (r *Recipe) HasOption(name OptionName) bool {
	_, ok := r.Option(name)
	return ok
}

// Validate checks the declaration for internal consistency.
func (r *Recipe) Validate() error {
	if r == nil {
		return sislerrors.New(sislerrors.ErrCodeInvalidRequest, "recipe cannot be nil")
	}

	var result *multierror.Error
	if r.Name == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if r.Version == "" {
		result = multierror.Append(result, fmt.Errorf("version is required"))
	} else if _, err := version.ParseVersion(r.Version); err != nil {
		result = multierror.Append(result, fmt.Errorf("version %q: %w", r.Version, err))
	}

	for _, s := range r.Settings {
		if !s.IsValid() {
			result = multierror.Append(result, fmt.Errorf("unknown setting %q", s))
		}
	}

	seen := make(map[OptionName]bool, len(r.Options))
	for _, o := range r.Options {
		if o.Name == "" {
			result = multierror.Append(result, fmt.Errorf("option with empty name"))
			continue
		}
		if seen[o.Name] {
			result = multierror.Append(result, fmt.Errorf("option %q declared twice", o.Name))
		}
		seen[o.Name] = true
		if _, err := ParseToggle(o.Default); err != nil {
			result = multierror.Append(result, fmt.Errorf("option %q default: %w", o.Name, err))
		}
		if o.DeleteIf != nil && !r.HasSetting(o.DeleteIf.Setting) {
			result = multierror.Append(result,
				fmt.Errorf("option %q deletion rule references undeclared setting %q", o.Name, o.DeleteIf.Setting))
		}
	}

	for i, l := range r.Layout {
		if l.Pattern == "" {
			result = multierror.Append(result, fmt.Errorf("layout rule %d has empty pattern", i))
		}
		if l.Dst == "" {
			result = multierror.Append(result, fmt.Errorf("layout rule %d has empty destination", i))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return sislerrors.WrapWithContext(sislerrors.ErrCodeInvalidRequest, "invalid recipe", err,
			map[string]any{"recipe": r.Name})
	}
	return nil
}
