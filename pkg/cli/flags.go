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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/defaults"
	"github.com/sbinmalek/sisl/pkg/recipe"
	"github.com/sbinmalek/sisl/pkg/serializer"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "output",
		Usage: "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
		Sources: cli.EnvVars("SISL_FORMAT"),
	}
}

func recipeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "recipe",
		Aliases: []string{"r"},
		Usage:   "name of a recipe from the built-in catalog (see 'sislpkg recipes')",
		Sources: cli.EnvVars("SISL_RECIPE"),
	}
}

func recipeFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "recipe-file",
		Usage:   "path or URL to a recipe YAML file; overrides --recipe",
		Sources: cli.EnvVars("SISL_RECIPE_FILE"),
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profile",
		Usage:   "TOML profile with [settings] and [options] tables",
		Sources: cli.EnvVars("SISL_PROFILE"),
	}
}

func settingFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "setting",
		Aliases: []string{"s"},
		Usage:   fmt.Sprintf("setting assignment name=value (repeatable), one of %s, e.g. -s compiler=gcc", supportedSettings()),
	}
}

func optionFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "option",
		Aliases: []string{"o"},
		Usage:   "option assignment name=True|False (repeatable), e.g. -o coverage=True",
	}
}

func sourceDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source-dir",
		Value:   defaults.SourceDir,
		Usage:   "library source tree",
		Sources: cli.EnvVars("SISL_SOURCE_DIR"),
	}
}

func buildDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "build-dir",
		Value:   defaults.BuildDir,
		Usage:   "CMake build tree",
		Sources: cli.EnvVars("SISL_BUILD_DIR"),
	}
}

func packageDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "package-dir",
		Value:   defaults.PackageDir,
		Usage:   "install tree the package layout is copied into",
		Sources: cli.EnvVars("SISL_PACKAGE_DIR"),
	}
}

func parallelFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "parallel",
		Aliases: []string{"j"},
		Value:   defaults.BuildParallelism,
		Usage:   "parallel jobs for the cmake build and for manifest hashing (0 keeps the tool default)",
		Sources: cli.EnvVars("SISL_PARALLEL"),
	}
}

func cmakeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "cmake",
		Value:   "cmake",
		Usage:   "cmake binary",
		Sources: cli.EnvVars("SISL_CMAKE"),
	}
}

// resolveFlags are shared by every command that needs a resolved recipe.
func resolveFlags() []cli.Flag {
	return []cli.Flag{
		recipeFlag(),
		recipeFileFlag(),
		profileFlag(),
		settingFlag(),
		optionFlag(),
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{outputFlag(), formatFlag()}
}

func supportedSettings() string {
	names := make([]string, 0, len(recipe.SupportedSettings()))
	for _, s := range recipe.SupportedSettings() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
