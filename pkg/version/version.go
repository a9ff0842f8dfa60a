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

// Package version parses the dotted numeric versions used by recipes and
// their dependencies, such as "1.0.4" or "2020.05.04.00".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
	ErrInvalidTag        = errors.New("version cannot be used as a tag")
)

// Version is a dotted numeric version with optional pre-release or build
// metadata ("-rc1", "+build.5"). Any number of numeric components is allowed.
type Version struct {
	Components []int `json:"components" yaml:"components"`

	// Extras stores the suffix starting at the first '-' or '+' after a digit.
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`

	raw string
}

// ParseVersion parses s. Leading zeros in components are kept in String.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	v := Version{raw: s}
	mainPart := s
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			mainPart = s[:i]
			v.Extras = s[i:]
			break
		}
	}

	parts := strings.Split(mainPart, ".")
	v.Components = make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component in %q", ErrNonNumeric, s)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 || strings.HasPrefix(part, "-") || strings.HasPrefix(part, "+") {
			return Version{}, fmt.Errorf("%w: %q", ErrNegativeComponent, part)
		}
		v.Components = append(v.Components, num)
	}
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// String returns the version as it was parsed.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	parts := make([]string, len(v.Components))
	for i, c := range v.Components {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".") + v.Extras
}

// Compare returns -1, 0 or 1. Missing trailing components count as zero, so
// "1.2" equals "1.2.0". Extras are ignored.
func (v Version) Compare(other Version) int {
	n := max(len(v.Components), len(other.Components))
	for i := range n {
		a, b := component(v, i), component(other, i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Tag returns the version in a form accepted as an OCI tag. '+' is not
// allowed in tags and is replaced with '_'.
func (v Version) Tag() (string, error) {
	tag := strings.ReplaceAll(v.String(), "+", "_")
	if len(tag) > 128 {
		return "", fmt.Errorf("%w: longer than 128 characters", ErrInvalidTag)
	}
	return tag, nil
}

func component(v Version, i int) int {
	if i < len(v.Components) {
		return v.Components[i]
	}
	return 0
}
