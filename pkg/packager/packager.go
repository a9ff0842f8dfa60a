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

package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sbinmalek/sisl/pkg/defaults"
	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

// Packager copies build outputs into an install tree according to layout rules.
type Packager struct {
	build       billy.Filesystem
	install     billy.Filesystem
	concurrency int
	skipDirs    []string
}

// Option configures a Packager.
type Option func(*Packager)

// WithConcurrency bounds concurrent hashing when writing the manifest.
func WithConcurrency(n int) Option {
	return func(p *Packager) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithSkipDirs excludes build-tree directories, relative to its root, from
// every rule. It keeps an install tree nested in the build tree from being
// read back as input.
func WithSkipDirs(dirs ...string) Option {
	return func(p *Packager) {
		for _, d := range dirs {
			if d = filepath.ToSlash(filepath.Clean(d)); d != "." && d != "" {
				p.skipDirs = append(p.skipDirs, d)
			}
		}
	}
}

// New returns a Packager reading from build and writing to install.
func New(build, install billy.Filesystem, opts ...Option) *Packager {
	p := &Packager{
		build:       build,
		install:     install,
		concurrency: defaults.ChecksumConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RuleResult lists the install-tree paths a rule wrote.
type RuleResult struct {
	Rule   string   `json:"rule" yaml:"rule"`
	Copied []string `json:"copied" yaml:"copied"`
}

// Apply runs every rule in order and then writes the package manifest.
// Later rules overwrite files written by earlier ones. A rule that matches
// nothing is valid.
func (p *Packager) Apply(ctx context.Context, rules []recipe.LayoutRule) (*Manifest, error) {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		copied, err := p.ApplyRule(ctx, rule)
		if err != nil {
			return nil, err
		}
		results = append(results, RuleResult{Rule: rule.String(), Copied: copied})
	}

	m, err := p.WriteManifest(ctx)
	if err != nil {
		return nil, err
	}
	m.Rules = results

	slog.Info("package assembled", "rules", len(rules), "files", len(m.Files))
	return m, nil
}

// ApplyRule copies the files matched by one rule and returns their
// destination paths in walk order.
func (p *Packager) ApplyRule(ctx context.Context, rule recipe.LayoutRule) ([]string, error) {
	root := rule.Src
	if root == "" {
		root = "."
	}

	var copied []string
	walkErr := util.Walk(p.build, root, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			if filePath == root && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if p.skipped(filePath) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !Match(rule.Pattern, rel) {
			return nil
		}

		// Walk does not follow links; versioned shared objects are usually
		// installed as libfoo.so -> libfoo.so.1.0, so copy the target's bytes.
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := p.build.Stat(filePath)
			if err != nil {
				return fmt.Errorf("failed to resolve link %s: %w", filePath, err)
			}
			info = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		dst := destination(rule, rel)
		if err := p.copyFile(filePath, dst, info.Mode().Perm()); err != nil {
			return err
		}
		copied = append(copied, dst)
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeTimeout, "packaging interrupted", ctxErr)
		}
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeInternal, "failed to apply layout rule", walkErr,
			map[string]any{"rule": rule.String()})
	}

	filesCopied.Add(float64(len(copied)))
	if len(copied) == 0 {
		emptyRules.Inc()
		slog.Debug("layout rule matched no files", "rule", rule.String())
	} else {
		slog.Debug("layout rule applied", "rule", rule.String(), "files", len(copied))
	}
	return copied, nil
}

func (p *Packager) skipped(dir string) bool {
	return slices.Contains(p.skipDirs, filepath.ToSlash(filepath.Clean(dir)))
}

// Match reports whether rel matches pattern. Patterns without a slash match
// the base name at any depth; patterns with a slash match the whole
// slash-separated path relative to the rule source.
func Match(pattern, rel string) bool {
	target := rel
	if !strings.Contains(pattern, "/") {
		target = path.Base(rel)
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

func destination(rule recipe.LayoutRule, rel string) string {
	if rule.Flatten {
		return path.Join(rule.Dst, path.Base(rel))
	}
	return path.Join(rule.Dst, rel)
}

func (p *Packager) copyFile(src, dst string, perm os.FileMode) error {
	in, err := p.build.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	dstPath := filepath.FromSlash(dst)
	if err := p.install.MkdirAll(filepath.Dir(dstPath), defaults.DirMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := util.WriteFile(p.install, dstPath, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
