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

package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/build"
	"github.com/sbinmalek/sisl/pkg/cppinfo"
	"github.com/sbinmalek/sisl/pkg/defaults"
	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/packager"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

// runBuild drives cmake through configure, build and test for the plan.
func runBuild(ctx context.Context, cmd *cli.Command, plan *build.Plan) error {
	tool := build.NewCMake(cmd.String("source-dir"), cmd.String("build-dir"),
		build.WithBinary(cmd.String("cmake")),
		build.WithParallel(cmd.Int("parallel")),
		build.WithOutput(os.Stderr),
	)
	return build.NewInvoker(tool).Run(ctx, plan)
}

// assemble copies the recipe layout from the source tree into the package
// directory and returns the written manifest.
func assemble(ctx context.Context, cmd *cli.Command, r *recipe.Recipe) (*packager.Manifest, error) {
	sourceDir := cmd.String("source-dir")
	packageDir := cmd.String("package-dir")

	if samePath(sourceDir, packageDir) {
		return nil, sislerrors.NewWithContext(sislerrors.ErrCodeInvalidRequest,
			"package directory must differ from the source directory",
			map[string]any{"dir": sourceDir})
	}
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, sislerrors.WrapWithContext(sislerrors.ErrCodeNotFound, "source directory not found", err,
			map[string]any{"dir": sourceDir})
	}

	p := packager.New(osfs.New(sourceDir), osfs.New(packageDir),
		packager.WithSkipDirs(nestedDirs(sourceDir, packageDir, filepath.Join(sourceDir, ".git"))...),
		packager.WithConcurrency(cmd.Int("parallel")),
	)

	slog.Info("assembling package",
		"recipe", r.Reference(),
		"source", sourceDir,
		"package", packageDir)

	return p.Apply(ctx, r.Layout)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// nestedDirs returns the dirs that sit inside root, relative to it.
// Dirs outside root are dropped.
func nestedDirs(root string, dirs ...string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	var nested []string
	for _, d := range dirs {
		absDir, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, absDir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		nested = append(nested, rel)
	}
	return nested
}

// consumerInfo computes what downstream builds need from the package directory.
func consumerInfo(cmd *cli.Command, r *recipe.Recipe, res *recipe.Resolved) (*cppinfo.ConsumerInfo, error) {
	var discovered []string
	if r.CollectLibs {
		libs, err := cppinfo.CollectLibs(osfs.New(cmd.String("package-dir")), defaults.LibDir)
		if err != nil {
			return nil, err
		}
		discovered = libs
	}
	return cppinfo.Emit(r, res, discovered), nil
}
