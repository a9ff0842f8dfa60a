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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/build"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/serializer"
)

func planFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "plan-file",
		Usage:   "run a plan saved by 'sislpkg plan' (path or URL) instead of resolving options",
		Sources: cli.EnvVars("SISL_PLAN_FILE"),
	}
}

func buildCmd() *cli.Command {
	flags := append(resolveFlags(), planFileFlag(), sourceDirFlag(), buildDirFlag(), parallelFlag(), cmakeFlag())
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Configure, build and test the library with CMake.",
		Description: `Runs three phases in order and stops at the first failure:
  configure  cmake -S <source-dir> -B <build-dir> -DKEY=VALUE...
  build      cmake --build <build-dir>
  test       cmake --build <build-dir> --target <coverage|test>

The executed plan is written to --output when the build succeeds.

Examples:
  sislpkg build --recipe sisl -s compiler=gcc -o coverage=True --parallel 8
  sislpkg build --plan-file plan.yaml --source-dir ../sisl`,
		Flags: append(flags, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := planFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			if err := runBuild(ctx, cmd, plan); err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindBuildPlan, plan)
		},
	}
}

// planFromCmd reads --plan-file when set and otherwise resolves the recipe.
func planFromCmd(ctx context.Context, cmd *cli.Command) (*build.Plan, error) {
	if path := strings.TrimSpace(cmd.String("plan-file")); path != "" {
		return serializer.FromFile[build.Plan](ctx, path, fetchOptions(cmd)...)
	}
	r, res, err := resolveFromCmd(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return build.NewPlan(r, res), nil
}
