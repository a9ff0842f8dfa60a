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

	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/recipe"
)

// RecipeSummary is one entry of the catalog listing.
type RecipeSummary struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog lists the built-in recipes.
type Catalog struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipes []RecipeSummary `json:"recipes" yaml:"recipes"`
}

func recipesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "recipes",
		EnableShellCompletion: true,
		Usage:                 "List the built-in recipes.",
		Flags:                 outputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			catalog, err := listCatalog()
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindCatalog, catalog)
		},
	}
}

func listCatalog() (*Catalog, error) {
	names, err := recipe.Names()
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{Recipes: make([]RecipeSummary, 0, len(names))}
	for _, name := range names {
		r, err := recipe.Load(name)
		if err != nil {
			return nil, err
		}
		catalog.Recipes = append(catalog.Recipes, RecipeSummary{
			Name:        r.Name,
			Version:     r.Version,
			Description: r.Description,
		})
	}
	return catalog, nil
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "inspect",
		EnableShellCompletion: true,
		Usage:                 "Show a recipe: settings, options, dependencies and package layout.",
		Description: `Prints the recipe declaration as loaded, before any option resolution.

Examples:
  sislpkg inspect --recipe sisl
  sislpkg inspect --recipe-file ./sisl.yaml --format json`,
		Flags: append([]cli.Flag{recipeFlag(), recipeFileFlag()}, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := loadRecipe(ctx, cmd)
			if err != nil {
				return err
			}
			slog.Debug("inspecting recipe",
				"reference", r.Reference(),
				"dependencies", len(r.Requires),
				"layoutRules", len(r.Layout))
			return writeDoc(ctx, cmd, header.KindRecipe, r)
		},
	}
}
