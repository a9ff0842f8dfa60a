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

	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/build"
	"github.com/sbinmalek/sisl/pkg/header"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve recipe options against settings and show the active option set.",
		Description: `Applies defaults, deletion rules and precedence to the requested values.
Options removed by a deletion rule are reported as Unset.

Examples:
  sislpkg resolve --recipe sisl -s compiler=clang -o coverage=True
  sislpkg resolve --recipe sds_metrics --profile release.toml`,
		Flags: append(resolveFlags(), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindResolution, res.Document())
		},
	}
}

func planCmd() *cli.Command {
	return &cli.Command{
		Name:                  "plan",
		EnableShellCompletion: true,
		Usage:                 "Compute the CMake definitions and test target without building.",
		Description: `The plan can be saved and later passed to 'sislpkg build --plan-file'.

Examples:
  sislpkg plan --recipe sisl -s build_type=Debug -o sanitize=True
  sislpkg plan --recipe sisl --output plan.yaml`,
		Flags: append(resolveFlags(), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindBuildPlan, build.NewPlan(r, res))
		},
	}
}
