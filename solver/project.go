// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package solver

import (
	"math"
	"sort"
)

// projector maps a point onto the feasible set of the problem in place
type projector interface {
	project(x []float64)
}

// simplexProjector projects onto {x : x >= 0, sum(x) == total}. For total == 1
// the upper bound of 1 is implied
type simplexProjector struct {
	total  float64
	sorted []float64
}

// project computes the euclidean projection using the sort based algorithm of
// Duchi et al. (2008), "Efficient Projections onto the l1-Ball for Learning
// in High Dimensions"
func (sp *simplexProjector) project(x []float64) {
	if len(x) == 1 {
		x[0] = sp.total
		return
	}

	if len(sp.sorted) != len(x) {
		sp.sorted = make([]float64, len(x))
	}
	copy(sp.sorted, x)
	sort.Sort(sort.Reverse(sort.Float64Slice(sp.sorted)))

	cumsum := 0.0
	theta := 0.0
	for idx, val := range sp.sorted {
		cumsum += val
		t := (cumsum - sp.total) / float64(idx+1)
		if val-t > 0 {
			theta = t
		}
	}

	for idx := range x {
		x[idx] = math.Max(x[idx]-theta, 0)
	}
}

// boxProjector clips every coordinate to [lower, upper]
type boxProjector struct {
	lower float64
	upper float64
}

func (bp *boxProjector) project(x []float64) {
	for idx := range x {
		x[idx] = math.Min(math.Max(x[idx], bp.lower), bp.upper)
	}
}
