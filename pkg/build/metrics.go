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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	phaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sisl_build_phase_duration_seconds",
			Help:    "Duration of configure, build and test phases in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"phase"},
	)

	phaseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sisl_build_phase_failures_total",
			Help: "Total number of failed build phases",
		},
		[]string{"phase"},
	)
)
