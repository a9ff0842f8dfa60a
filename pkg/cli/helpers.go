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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/recipe"
	"github.com/sbinmalek/sisl/pkg/serializer"
)

// document is any emitted type embedding header.Header.
type document interface {
	Init(kind header.Kind, version, invocation string)
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// fetchOptions configures remote reads of recipe and plan files.
func fetchOptions(cmd *cli.Command) []serializer.HttpReaderOption {
	return []serializer.HttpReaderOption{
		serializer.WithTotalTimeout(cmd.Duration("fetch-timeout")),
		serializer.WithUserAgent(fmt.Sprintf("%s/%s", name, version)),
	}
}

// loadRecipe returns the recipe named by --recipe-file or --recipe.
func loadRecipe(ctx context.Context, cmd *cli.Command) (*recipe.Recipe, error) {
	if path := strings.TrimSpace(cmd.String("recipe-file")); path != "" {
		content, err := serializer.ReadBytes(ctx, path, fetchOptions(cmd)...)
		if err != nil {
			return nil, sislerrors.Wrap(sislerrors.ErrCodeNotFound,
				fmt.Sprintf("failed to read recipe file %s", path), err)
		}
		r, err := recipe.Parse(content)
		if err != nil {
			return nil, err
		}
		slog.Debug("recipe loaded", "source", path, "reference", r.Reference())
		return r, nil
	}

	name := strings.TrimSpace(cmd.String("recipe"))
	if name == "" {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest,
			"either --recipe or --recipe-file is required")
	}
	r, err := recipe.Load(name)
	if err != nil {
		return nil, err
	}
	slog.Debug("recipe loaded", "source", "catalog", "reference", r.Reference())
	return r, nil
}

// buildRequest merges the optional profile with -s and -o assignments.
func buildRequest(cmd *cli.Command) (recipe.Request, error) {
	var profile *recipe.Profile
	if path := strings.TrimSpace(cmd.String("profile")); path != "" {
		p, err := recipe.LoadProfile(path)
		if err != nil {
			return recipe.Request{}, err
		}
		profile = p
	}

	settings, err := recipe.ParseAssignments(cmd.StringSlice("setting"))
	if err != nil {
		return recipe.Request{}, err
	}
	options, err := recipe.ParseAssignments(cmd.StringSlice("option"))
	if err != nil {
		return recipe.Request{}, err
	}

	return recipe.NewRequest(profile, settings, options), nil
}

// resolveFromCmd loads the recipe and resolves its options for this invocation.
func resolveFromCmd(ctx context.Context, cmd *cli.Command) (*recipe.Recipe, *recipe.Resolved, error) {
	r, err := loadRecipe(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	req, err := buildRequest(cmd)
	if err != nil {
		return nil, nil, err
	}
	res, err := recipe.Resolve(r, req)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("options resolved",
		"recipe", r.Reference(),
		"sanitize", res.Sanitize(),
		"coverage", res.CoverageEnabled())
	return r, res, nil
}

// writeDoc stamps the document header and serializes it to --output in --format.
func writeDoc(ctx context.Context, cmd *cli.Command, kind header.Kind, doc document) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	if !kind.IsValid() {
		return sislerrors.New(sislerrors.ErrCodeInternal, fmt.Sprintf("unknown document kind %q", kind))
	}
	doc.Init(kind, version, invocationID(ctx))

	w, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			slog.Warn("failed to close output", "error", closeErr)
		}
	}()

	return w.Serialize(ctx, doc)
}
