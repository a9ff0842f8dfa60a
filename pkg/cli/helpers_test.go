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
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/sbinmalek/sisl/pkg/build"
	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
	"github.com/sbinmalek/sisl/pkg/header"
	"github.com/sbinmalek/sisl/pkg/recipe"
	"github.com/sbinmalek/sisl/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "valid yaml format", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "valid json format", format: "json", wantFormat: serializer.FormatJSON},
		{name: "valid table format", format: "table", wantFormat: serializer.FormatTable},
		{name: "mixed case and spaces", format: " JSON ", wantFormat: serializer.FormatJSON},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestLoadRecipe(t *testing.T) {
	recipeFile := filepath.Join(t.TempDir(), "custom.yaml")
	content := []byte("name: custom\nversion: 0.0.1\nsettings: [compiler]\n" +
		"options:\n  - name: sanitize\n    default: \"False\"\nrequires: []\nlayout: []\n")
	if err := os.WriteFile(recipeFile, content, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantRef string
		wantErr bool
	}{
		{name: "catalog sisl", args: []string{"--recipe", "sisl"}, wantRef: "sisl/1.0.4"},
		{name: "catalog sds_metrics", args: []string{"-r", "sds_metrics"}, wantRef: "sds_metrics/0.3.2"},
		{name: "file overrides name", args: []string{"--recipe", "sisl", "--recipe-file", recipeFile}, wantRef: "custom/0.0.1"},
		{name: "unknown recipe", args: []string{"--recipe", "folly"}, wantErr: true},
		{name: "missing file", args: []string{"--recipe-file", filepath.Join(t.TempDir(), "nope.yaml")}, wantErr: true},
		{name: "nothing given", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{recipeFlag(), recipeFileFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					r, err := loadRecipe(ctx, c)
					if (err != nil) != tt.wantErr {
						t.Errorf("loadRecipe() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && r.Reference() != tt.wantRef {
						t.Errorf("loadRecipe() = %s, want %s", r.Reference(), tt.wantRef)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), append([]string{"test"}, tt.args...)); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestBuildRequest_CommandLineOverridesProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "linux.toml")
	content := []byte("[settings]\ncompiler = \"gcc\"\nos = \"Linux\"\n\n[options]\ncoverage = \"True\"\nsanitize = \"True\"\n")
	if err := os.WriteFile(profile, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := &cli.Command{
		Flags: []cli.Flag{profileFlag(), settingFlag(), optionFlag()},
		Action: func(_ context.Context, c *cli.Command) error {
			req, err := buildRequest(c)
			if err != nil {
				t.Fatalf("buildRequest() error = %v", err)
			}
			if got := req.Settings[recipe.SettingCompiler]; got != "clang" {
				t.Errorf("compiler = %q, want clang", got)
			}
			if got := req.Settings[recipe.SettingOS]; got != recipe.OSLinux {
				t.Errorf("os = %q, want %s", got, recipe.OSLinux)
			}
			if got := req.Options[recipe.OptionSanitize]; got != recipe.ValueFalse {
				t.Errorf("sanitize = %q, want %s", got, recipe.ValueFalse)
			}
			if got := req.Options[recipe.OptionCoverage]; got != recipe.ValueTrue {
				t.Errorf("coverage = %q, want %s", got, recipe.ValueTrue)
			}
			return nil
		},
	}

	args := []string{"test", "--profile", profile, "-s", "compiler=clang", "-o", "sanitize=False"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
}

func TestBuildRequest_InvalidAssignment(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{profileFlag(), settingFlag(), optionFlag()},
		Action: func(_ context.Context, c *cli.Command) error {
			_, err := buildRequest(c)
			return err
		},
	}
	if err := cmd.Run(context.Background(), []string{"test", "-o", "coverage"}); err == nil {
		t.Error("expected error for assignment without '='")
	}
}

func TestWriteDoc(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.yaml")
	ctx := context.WithValue(context.Background(), invocationKey{}, "inv-123")

	plan := &build.Plan{
		Recipe:      "sisl/1.0.4",
		Definitions: build.Definitions{build.DefCoverage: build.Off},
	}

	cmd := &cli.Command{
		Flags: outputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return writeDoc(ctx, c, header.KindBuildPlan, plan)
		},
	}
	if err := cmd.Run(ctx, []string{"test", "--output", out}); err != nil {
		t.Fatalf("writeDoc() error = %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got build.Plan
	if err := yaml.Unmarshal(content, &got); err != nil {
		t.Fatalf("output is not yaml: %v", err)
	}
	if got.Kind != header.KindBuildPlan {
		t.Errorf("kind = %q, want %q", got.Kind, header.KindBuildPlan)
	}
	if got.Metadata[header.MetadataInvocation] != "inv-123" {
		t.Errorf("invocation = %q, want inv-123", got.Metadata[header.MetadataInvocation])
	}
	if got.Definitions[build.DefCoverage] != build.Off {
		t.Errorf("definitions = %v", got.Definitions)
	}
}

func TestWriteDoc_UnknownKind(t *testing.T) {
	out := filepath.Join(t.TempDir(), "doc.yaml")
	cmd := &cli.Command{
		Flags: outputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return writeDoc(ctx, c, header.Kind("Snapshot"), &build.Plan{})
		},
	}

	err := cmd.Run(context.Background(), []string{"test", "--output", out})
	if sislerrors.CodeOf(err) != sislerrors.ErrCodeInternal {
		t.Errorf("writeDoc() error = %v, want %s", err, sislerrors.ErrCodeInternal)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("output written for unknown kind: %v", statErr)
	}
}
