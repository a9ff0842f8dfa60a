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
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/urfave/cli/v3"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/oci"
	"github.com/sbinmalek/sisl/pkg/packager"
	"github.com/sbinmalek/sisl/pkg/recipe"
	sislversion "github.com/sbinmalek/sisl/pkg/version"
)

// localRegistry names the registry recorded for packages written to a directory.
const localRegistry = "localhost"

// PublishResult describes a published package.
type PublishResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe    string `json:"recipe" yaml:"recipe"`
	Reference string `json:"reference" yaml:"reference"`
	Digest    string `json:"digest" yaml:"digest"`
	StorePath string `json:"storePath,omitempty" yaml:"storePath,omitempty"`
	Pushed    bool   `json:"pushed" yaml:"pushed"`
}

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:                  "publish",
		EnableShellCompletion: true,
		Usage:                 "Publish a verified install tree as an OCI artifact.",
		Description: `Verifies --package-dir against its manifest and packages it as a single-layer
OCI artifact. With an oci:// target the artifact is pushed to the registry
using Docker credentials; any other target is a directory that receives an
OCI image layout.

Examples:
  sislpkg publish --recipe sisl --to oci://ghcr.io/sds/sisl
  sislpkg publish --recipe sisl --to oci://localhost:5000/sds/sisl:dev --plain-http
  sislpkg publish --recipe sds_metrics --to ./dist`,
		Flags: append([]cli.Flag{
			recipeFlag(),
			recipeFileFlag(),
			packageDirFlag(),
			&cli.StringFlag{
				Name:     "to",
				Usage:    "publish target: oci://registry/repository[:tag] or a local directory",
				Required: true,
				Sources:  cli.EnvVars("SISL_PUBLISH_TO"),
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "artifact tag (default: tag in --to, then the recipe version)",
			},
			&cli.BoolFlag{
				Name:    "plain-http",
				Usage:   "use HTTP instead of HTTPS for the registry",
				Sources: cli.EnvVars("SISL_PLAIN_HTTP"),
			},
			&cli.BoolFlag{
				Name:    "insecure-tls",
				Usage:   "skip TLS certificate verification",
				Sources: cli.EnvVars("SISL_INSECURE_TLS"),
			},
			&cli.StringFlag{
				Name:  "reproducible-timestamp",
				Usage: "RFC 3339 creation time recorded in the manifest so equal trees yield equal digests",
			},
		}, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := loadRecipe(ctx, cmd)
			if err != nil {
				return err
			}

			packageDir := cmd.String("package-dir")
			if err := packager.Verify(ctx, osfs.New(packageDir)); err != nil {
				return err
			}

			target, err := oci.ParseOutputTarget(cmd.String("to"))
			if err != nil {
				return err
			}

			result, err := publish(ctx, r, target, publishSettings{
				packageDir:  packageDir,
				tag:         cmd.String("tag"),
				plainHTTP:   cmd.Bool("plain-http"),
				insecureTLS: cmd.Bool("insecure-tls"),
				timestamp:   cmd.String("reproducible-timestamp"),
			})
			if err != nil {
				return err
			}
			return writeDoc(ctx, cmd, header.KindPublish, result)
		},
	}
}

type publishSettings struct {
	packageDir  string
	tag         string
	plainHTTP   bool
	insecureTLS bool
	timestamp   string
}

func publish(ctx context.Context, r *recipe.Recipe, target *oci.Reference, s publishSettings) (*PublishResult, error) {
	tag, err := publishTag(s.tag, target.Tag, r.Version)
	if err != nil {
		return nil, err
	}
	annotations := recipeAnnotations(r)

	if target.IsOCI {
		pushed, err := oci.PackageAndPush(ctx, oci.OutputConfig{
			SourceDir:             s.packageDir,
			OutputDir:             s.packageDir + ".oci",
			Reference:             target.WithTag(tag),
			PlainHTTP:             s.plainHTTP,
			InsecureTLS:           s.insecureTLS,
			Annotations:           annotations,
			ReproducibleTimestamp: s.timestamp,
		})
		if err != nil {
			return nil, err
		}
		return &PublishResult{
			Recipe:    r.Reference(),
			Reference: pushed.Reference,
			Digest:    pushed.Digest,
			StorePath: pushed.StorePath,
			Pushed:    true,
		}, nil
	}

	if strings.TrimSpace(target.LocalPath) == "" {
		return nil, sislerrors.New(sislerrors.ErrCodeInvalidRequest, "publish target cannot be empty")
	}

	packaged, err := oci.Package(ctx, oci.PackageOptions{
		SourceDir:             s.packageDir,
		OutputDir:             target.LocalPath,
		Registry:              localRegistry,
		Repository:            r.Name,
		Tag:                   tag,
		Annotations:           annotations,
		ReproducibleTimestamp: s.timestamp,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("package written to OCI layout", "path", packaged.StorePath)

	return &PublishResult{
		Recipe:    r.Reference(),
		Reference: packaged.Reference,
		Digest:    packaged.Digest,
		StorePath: packaged.StorePath,
	}, nil
}

// publishTag picks the flag tag, then the target tag, then the recipe version
// rendered as a valid OCI tag.
func publishTag(flagTag, targetTag, recipeVersion string) (string, error) {
	for _, t := range []string{flagTag, targetTag} {
		if t = strings.TrimSpace(t); t != "" {
			if tagConflicts(t, recipeVersion) {
				slog.Warn("tag names a different version than the recipe",
					"tag", t, "recipeVersion", recipeVersion)
			}
			return t, nil
		}
	}
	v, err := sislversion.ParseVersion(recipeVersion)
	if err != nil {
		return "", sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest, "recipe version cannot be used as a tag", err)
	}
	tag, err := v.Tag()
	if err != nil {
		return "", sislerrors.Wrap(sislerrors.ErrCodeInvalidRequest, "recipe version cannot be used as a tag", err)
	}
	return tag, nil
}

// tagConflicts reports whether tag parses as a version that differs from
// recipeVersion. Tags such as "latest" never conflict.
func tagConflicts(tag, recipeVersion string) bool {
	tv, err := sislversion.ParseVersion(strings.ReplaceAll(tag, "_", "+"))
	if err != nil {
		return false
	}
	rv, err := sislversion.ParseVersion(recipeVersion)
	if err != nil {
		return false
	}
	return tv.Compare(rv) != 0
}

func recipeAnnotations(r *recipe.Recipe) map[string]string {
	annotations := map[string]string{
		ociv1.AnnotationVersion: r.Version,
	}
	if r.Description != "" {
		annotations[ociv1.AnnotationDescription] = r.Description
	}
	if r.License != "" {
		annotations[ociv1.AnnotationLicenses] = r.License
	}
	if r.URL != "" {
		annotations[ociv1.AnnotationSource] = r.URL
	}
	return annotations
}
