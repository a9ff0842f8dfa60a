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
	"fmt"
	"log/slog"
	"time"

	sislerrors "github.com/sbinmalek/sisl/pkg/errors"
)

// Tool is the external build system collaborator.
type Tool interface {
	// Configure generates the build tree from the definitions.
	Configure(ctx context.Context, defs Definitions) error
	// Build compiles the configured tree.
	Build(ctx context.Context) error
	// Test runs the given target, or the default test target when nil.
	Test(ctx context.Context, target *string) error
}

// Phase names a step of the build sequence.
type Phase string

const (
	PhaseConfigure Phase = "configure"
	PhaseBuild     Phase = "build"
	PhaseTest      Phase = "test"
)

// Invoker drives a Tool through configure, build and test.
type Invoker struct {
	tool Tool
}

// NewInvoker returns an Invoker for the tool.
func NewInvoker(tool Tool) *Invoker {
	return &Invoker{tool: tool}
}

// Run executes the phases in order. The first failure aborts the sequence and
// is returned as BUILD_PHASE_FAILURE; there are no retries.
func (i *Invoker) Run(ctx context.Context, plan *Plan) error {
	if plan == nil {
		return sislerrors.New(sislerrors.ErrCodeInvalidRequest, "build plan cannot be nil")
	}
	slog.Debug("running build plan",
		"recipe", plan.Recipe,
		"definitions", len(plan.Definitions),
		"testTarget", plan.Target())

	steps := []struct {
		phase Phase
		run   func(context.Context) error
	}{
		{PhaseConfigure, func(ctx context.Context) error { return i.tool.Configure(ctx, plan.Definitions) }},
		{PhaseBuild, i.tool.Build},
		{PhaseTest, func(ctx context.Context) error { return i.tool.Test(ctx, plan.TestTarget) }},
	}

	for _, step := range steps {
		if err := i.runPhase(ctx, plan, step.phase, step.run); err != nil {
			return err
		}
	}
	return nil
}

func (i *Invoker) runPhase(ctx context.Context, plan *Plan, phase Phase, run func(context.Context) error) error {
	slog.Info("phase starting", "recipe", plan.Recipe, "phase", phase)
	start := time.Now()

	err := run(ctx)
	phaseDuration.WithLabelValues(string(phase)).Observe(time.Since(start).Seconds())

	if err != nil {
		phaseFailures.WithLabelValues(string(phase)).Inc()
		slog.Error("phase failed", "recipe", plan.Recipe, "phase", phase, "error", err)
		return sislerrors.WrapWithContext(sislerrors.ErrCodeBuildPhase,
			fmt.Sprintf("%s failed", phase), err,
			map[string]any{"recipe": plan.Recipe, "phase": string(phase)})
	}

	slog.Info("phase finished", "recipe", plan.Recipe, "phase", phase,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}
