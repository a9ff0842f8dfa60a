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

// Package build translates resolved recipe options into build-system inputs
// and drives the external build tool.
//
// # Plan
//
// NewPlan computes the BuildDefinitions and the optional test target:
//
//	CONAN_BUILD_COVERAGE  OFF, ON when coverage is enabled (gcc only)
//	MEMORY_SANITIZER_ON   OFF, ON when sanitize is set
//	CMAKE_BUILD_TYPE      Debug, only when build_type is Debug
//	BUILD_SHARED_LIBS     from the shared option, when declared
//	CMAKE_POSITION_INDEPENDENT_CODE  from fPIC, when present
//
// Coverage selects the "coverage" test target; otherwise the target is nil
// and the tool runs its default test target.
//
// # Invocation
//
// Invoker.Run calls Configure, Build and Test on a Tool in that order and
// stops at the first failure, returning a BUILD_PHASE_FAILURE error that
// names the phase. CMake is the production Tool:
//
//	tool := build.NewCMake("src", "build", build.WithParallel(8))
//	err := build.NewInvoker(tool).Run(ctx, plan)
package build
