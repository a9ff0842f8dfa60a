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

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/defaults"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/packager"
)

func packageCmd() *cli.Command {
	return &cli.Command{
		Name:                  "package",
		EnableShellCompletion: true,
		Usage:                 "Copy headers, libraries and CMake files into the install tree.",
		Description: `Applies the recipe layout rules in order against --source-dir and writes the
matching files into --package-dir together with a manifest.txt of SHA-256
checksums. Later rules overwrite earlier ones. A rule that matches nothing
is not an error.

Examples:
  sislpkg package --recipe sisl --source-dir . --package-dir ./package
  sislpkg package --recipe sds_metrics --format table`,
		Flags: append([]cli.Flag{recipeFlag(), recipeFileFlag(), sourceDirFlag(), packageDirFlag(), parallelFlag()}, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := loadRecipe(ctx, cmd)
			if err != nil {
				return err
			}
			m, err := assemble(ctx, cmd, r)
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindManifest, m)
		},
	}
}

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "Check an install tree against its manifest.",
		Description: `Recomputes the checksum of every file under --package-dir and compares it to
manifest.txt. Modified, missing and unexpected files fail the check.

Examples:
  sislpkg verify --package-dir ./package`,
		Flags: append([]cli.Flag{packageDirFlag()}, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fs := osfs.New(cmd.String("package-dir"))
			if err := packager.Verify(ctx, fs); err != nil {
				return err
			}
			m, err := packager.Scan(ctx, fs, defaults.ChecksumConcurrency)
			if err != nil {
				return err
			}
			slog.Info("install tree verified", "dir", cmd.String("package-dir"), "files", len(m.Files))
			return writeDoc(ctx, cmd, header.KindManifest, m)
		},
	}
}
