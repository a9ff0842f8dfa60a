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
	"maps"
	"strings"

	"github.com/BurntSushi/toml"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// Profile is a reusable set of settings and option values, stored as TOML:
//
//	[settings]
//	os = "Linux"
//	compiler = "gcc"
//	build_type = "Debug"
//
//	[options]
//	coverage = "True"
type Profile struct {
	Settings map[string]string `toml:"settings"`
	Options  map[string]string `toml:"options"`
}

// LoadProfile reads a TOML profile from disk.
func LoadProfile(path string) (*Profile, error) {
	var p Profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to read profile %s", path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, sislerrors.NewWithContext(sislerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("profile %s has unknown keys", path),
			map[string]any{"keys": fmt.Sprint(undecoded)})
	}
	return &p, nil
}

// ParseAssignments parses repeated "key=value" flags.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid assignment %q, expected key=value", pair))
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// NewRequest merges profile values with explicit overrides; overrides win.
// A nil profile is allowed.
func NewRequest(p *Profile, settings, options map[string]string) Request {
	mergedSettings := make(map[string]string)
	mergedOptions := make(map[string]string)
	if p != nil {
		maps.Copy(mergedSettings, p.Settings)
		maps.Copy(mergedOptions, p.Options)
	}
	maps.Copy(mergedSettings, settings)
	maps.Copy(mergedOptions, options)

	req := Request{
		Settings: make(map[Setting]string, len(mergedSettings)),
		Options:  make(map[OptionName]string, len(mergedOptions)),
	}
	for k, v := range mergedSettings {
		req.Settings[Setting(k)] = v
	}
	for k, v := range mergedOptions {
		req.Options[OptionName(k)] = v
	}
	return req
}
