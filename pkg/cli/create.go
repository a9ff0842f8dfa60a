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

	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/build"
	"github.com/sbinmalek/sisl/pkg/header"
)

func skipBuildFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "skip-build",
		Usage:   "package an existing build tree without running cmake",
		Sources: cli.EnvVars("SISL_SKIP_BUILD"),
	}
}

func createCmd() *cli.Command {
	flags := append(resolveFlags(), sourceDirFlag(), buildDirFlag(), packageDirFlag(), parallelFlag(), cmakeFlag(), skipBuildFlag())
	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Build, package and describe the library in one run.",
		Description: `Equivalent to running plan, build, package and info in sequence with the
same recipe, settings and options. The consumer information is written to
--output.

Examples:
  sislpkg create --recipe sisl --profile linux-gcc.toml
  sislpkg create --recipe sds_metrics -s compiler=gcc -o coverage=True --package-dir /tmp/pkg`,
		Flags: append(flags, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("skip-build") {
				slog.Info("skipping build", "recipe", r.Reference())
			} else if err := runBuild(ctx, cmd, build.NewPlan(r, res)); err != nil {
				return err
			}

			m, err := assemble(ctx, cmd, r)
			if err != nil {
				return err
			}
			slog.Info("package created", "recipe", r.Reference(), "files", len(m.Files))

			info, err := consumerInfo(cmd, r, res)
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindConsumerInfo, info)
		},
	}
}
