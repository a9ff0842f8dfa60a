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

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	utilexec "k8s.io/utils/exec"
	"k8s.io/utils/ptr"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// DefaultTestTarget is built when the plan selects no test target.
const DefaultTestTarget = "test"

// CMake implements Tool by running the cmake command line.
type CMake struct {
	exec      utilexec.Interface
	binary    string
	sourceDir string
	buildDir  string
	parallel  int
	output    io.Writer
}

// CMakeOption configures a CMake tool.
type CMakeOption func(*CMake)

// WithExec replaces the command executor.
func WithExec(e utilexec.Interface) CMakeOption {
	return func(c *CMake) {
		c.exec = e
	}
}

// WithBinary sets the cmake executable.
func WithBinary(binary string) CMakeOption {
	return func(c *CMake) {
		c.binary = binary
	}
}

// WithParallel sets the number of parallel build jobs. Zero leaves it to cmake.
func WithParallel(jobs int) CMakeOption {
	return func(c *CMake) {
		c.parallel = jobs
	}
}

// WithOutput sets where tool output is streamed.
func WithOutput(w io.Writer) CMakeOption {
	return func(c *CMake) {
		c.output = w
	}
}

// NewCMake returns a CMake tool configuring sourceDir into buildDir.
func NewCMake(sourceDir, buildDir string, opts ...CMakeOption) *CMake {
	c := &CMake{
		exec:      utilexec.New(),
		binary:    "cmake",
		sourceDir: sourceDir,
		buildDir:  buildDir,
		output:    os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure runs cmake -S <source> -B <build> -DKEY=VALUE...
func (c *CMake) Configure(ctx context.Context, defs Definitions) error {
	args := append([]string{"-S", c.sourceDir, "-B", c.buildDir}, defs.Args()...)
	return c.run(ctx, args...)
}

// Build runs cmake --build <build>.
func (c *CMake) Build(ctx context.Context) error {
	args := []string{"--build", c.buildDir}
	if c.parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(c.parallel))
	}
	return c.run(ctx, args...)
}

// Test builds the given target, or the default test target when nil.
func (c *CMake) Test(ctx context.Context, target *string) error {
	return c.run(ctx, "--build", c.buildDir, "--target", ptr.Deref(target, DefaultTestTarget))
}

func (c *CMake) run(ctx context.Context, args ...string) error {
	slog.Debug("running build tool", "cmd", c.binary, "args", strings.Join(args, " "))

	cmd := c.exec.CommandContext(ctx, c.binary, args...)
	cmd.SetStdout(c.output)
	cmd.SetStderr(c.output)

	if err := cmd.Run(); err != nil {
		details := map[string]any{"cmd": c.binary + " " + strings.Join(args, " ")}
		var exitErr utilexec.ExitError
		if errors.As(err, &exitErr) {
			details["exit_code"] = exitErr.ExitStatus()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sislerrors.WrapWithContext(sislerrors.ErrCodeTimeout, "build tool interrupted", ctxErr, details)
		}
		return sislerrors.WrapWithContext(sislerrors.ErrCodeInternal,
			fmt.Sprintf("%s exited with failure", c.binary), err, details)
	}
	return nil
}
