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
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/sbinmalek/sisl/pkg/defaults"
	"github.com/sbinmalek/sisl/pkg/logging"
)

const (
	name           = "sislpkg"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

type invocationKey struct{}

// Execute runs the root command with the process arguments and exits
// non-zero on failure. SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnvFile(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Usage:                 "sislpkg - build, package and describe the sisl and sds_metrics libraries",
		Description: `Resolves recipe options and settings, drives the CMake build, assembles the
install tree and reports what downstream builds need to link against it.

Typical flow:
  sislpkg plan    --recipe sisl -s compiler=gcc -o coverage=True
  sislpkg build   --recipe sisl -s compiler=gcc -o coverage=True
  sislpkg package --recipe sisl
  sislpkg info    --recipe sisl -s os=Linux

or all of it at once:
  sislpkg create  --recipe sisl --profile linux-gcc.toml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel, "SISL_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before flags are read",
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Usage:   "bound on each --recipe-file or --plan-file URL fetch",
				Value:   defaults.HTTPClientTimeout,
				Sources: cli.EnvVars("SISL_FETCH_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write Prometheus metrics in text format to this file on exit",
				Sources: cli.EnvVars("SISL_METRICS_FILE"),
			},
		},
		Before: before,
		After:  after,
		Commands: []*cli.Command{
			recipesCmd(),
			inspectCmd(),
			resolveCmd(),
			planCmd(),
			buildCmd(),
			packageCmd(),
			verifyCmd(),
			infoCmd(),
			createCmd(),
			publishCmd(),
		},
	}
}

// before configures logging once flags are parsed and tags the run with an invocation ID.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)

	id := uuid.NewString()
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"invocation", id,
		"logLevel", logLevel)

	return context.WithValue(ctx, invocationKey{}, id), nil
}

func after(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}

// invocationID returns the ID assigned to this run, or "" outside a command.
func invocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// loadEnvFile loads the file named by --env-file into the environment so
// that flag environment sources see its values. Existing variables win.
func loadEnvFile(args []string) error {
	path := envFileFromArgs(args)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		for _, prefix := range []string{"--env-file", "-env-file"} {
			if arg == prefix && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(arg, prefix+"="); ok {
				return v
			}
		}
	}
	return ""
}

// commandLister prints visible subcommand names for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil || cmd.Root() == nil {
		return
	}
	for _, c := range cmd.Root().Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(cmd.Root().Writer, c.Name)
	}
}
