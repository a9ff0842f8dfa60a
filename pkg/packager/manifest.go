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
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"

	"github.com/sbinmalek/sisl/pkg/defaults"
	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
)

// ManifestFile is the name of the checksum file written at the root of the install tree.
const ManifestFile = "manifest.txt"

// Entry is one installed file and its checksum.
type Entry struct {
	Path   string `json:"path" yaml:"path"`
	SHA256 string `json:"sha256" yaml:"sha256"`
	Size   int64  `json:"size" yaml:"size"`
}

// Manifest describes the content of an install tree.
type Manifest struct {
	header.Header `json:",inline" yaml:",inline"`

	Rules []RuleResult `json:"rules,omitempty" yaml:"rules,omitempty"`
	Files []Entry      `json:"files" yaml:"files"`
}

// Bytes renders the manifest in checksum-file form, one "sha256  path" line per file.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	for _, e := range m.Files {
		fmt.Fprintf(&buf, "%s  %s\n", e.SHA256, e.Path)
	}
	return buf.Bytes()
}

// Paths returns the installed paths in manifest order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for _, e := range m.Files {
		paths = append(paths, e.Path)
	}
	return paths
}

// WriteManifest hashes every file of the install tree and writes ManifestFile.
func (p *Packager) WriteManifest(ctx context.Context) (*Manifest, error) {
	m, err := Scan(ctx, p.install, p.concurrency)
	if err != nil {
		return nil, err
	}
	if err := util.WriteFile(p.install, ManifestFile, m.Bytes(), defaults.FileMode); err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to write package manifest", err)
	}
	return m, nil
}

// Scan hashes every regular file in fs except the manifest itself.
// Hashing runs with at most concurrency goroutines; entries are sorted by path.
func Scan(ctx context.Context, fs billy.Filesystem, concurrency int) (*Manifest, error) {
	var paths []string
	walkErr := util.Walk(fs, ".", func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel := filepath.ToSlash(filepath.Clean(filePath))
		if rel == ManifestFile {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if walkErr != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to walk install tree", walkErr)
	}
	slices.Sort(paths)

	entries := make([]Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, size, err := hashFile(fs, rel)
			if err != nil {
				return err
			}
			entries[i] = Entry{Path: rel, SHA256: sum, Size: size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeTimeout, "manifest hashing interrupted", err)
		}
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to hash install tree", err)
	}

	m := &Manifest{Files: entries}
	m.Init(header.KindManifest, "", "")
	return m, nil
}

// Verify recomputes checksums and compares them to the ManifestFile in fs.
// Missing, extra and modified files are all reported.
func Verify(ctx context.Context, fs billy.Filesystem) error {
	recorded, err := ReadManifest(fs)
	if err != nil {
		return err
	}
	current, err := Scan(ctx, fs, defaults.ChecksumConcurrency)
	if err != nil {
		return err
	}

	want := make(map[string]string, len(recorded))
	for _, e := range recorded {
		want[e.Path] = e.SHA256
	}

	var mismatched []string
	for _, e := range current.Files {
		sum, ok := want[e.Path]
		if !ok || sum != e.SHA256 {
			mismatched = append(mismatched, e.Path)
		}
		delete(want, e.Path)
	}
	for missing := range want {
		mismatched = append(mismatched, missing)
	}
	if len(mismatched) > 0 {
		slices.Sort(mismatched)
		return sislerrors.NewWithContext(sislerrors.ErrCodeInvalidRequest, "install tree does not match manifest",
			map[string]any{"files": mismatched})
	}
	return nil
}

// ReadManifest parses the ManifestFile at the root of fs.
func ReadManifest(fs billy.Filesystem) ([]Entry, error) {
	f, err := fs.Open(ManifestFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeNotFound, "package manifest not found", err)
		}
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to open package manifest", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if text == "" {
			continue
		}
		sum, rel, ok := strings.Cut(text, "  ")
		if !ok || len(sum) != sha256.Size*2 || rel == "" {
			return nil, sislerrors.NewWithContext(sislerrors.ErrCodeInvalidRequest, "malformed manifest line",
				map[string]any{"line": line})
		}
		entries = append(entries, Entry{Path: rel, SHA256: sum})
	}
	if err := scanner.Err(); err != nil {
		return nil, sislerrors.Wrap(sislerrors.ErrCodeInternal, "failed to read package manifest", err)
	}
	return entries, nil
}

func hashFile(fs billy.Filesystem, rel string) (string, int64, error) {
	f, err := fs.Open(filepath.FromSlash(rel))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", rel, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
