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

	"github.com/sbinmalek/sisl/pkg/header"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "info",
		EnableShellCompletion: true,
		Usage:                 "Emit the libraries and flags downstream builds need.",
		Description: `Computes consumer information from the resolved options. Recipes that collect
libraries read their names from <package-dir>/lib.

Examples:
  sislpkg info --recipe sisl -s os=Linux -o sanitize=True
  sislpkg info --recipe sds_metrics -s compiler=gcc -o coverage=True --format json`,
		Flags: append(append(resolveFlags(), packageDirFlag()), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			info, err := consumerInfo(cmd, r, res)
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindConsumerInfo, info)
		},
	}
}
