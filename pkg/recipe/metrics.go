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

package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sisl_recipe_resolutions_total",
			Help: "Total number of option resolutions by outcome",
		},
		[]string{"recipe", "outcome"},
	)

	optionDeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sisl_recipe_option_deletions_total",
			Help: "Total number of options removed from the active set by a deletion rule",
		},
		[]string{"recipe", "option"},
	)
)
