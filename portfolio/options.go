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

package portfolio

import (
	"github.com/penny-vault/pv-frontier/solver"
	"gonum.org/v1/gonum/mat"
)

// DefaultFrontierPoints is the number of target returns swept by EfficientFrontier
const DefaultFrontierPoints = 100

// pointSolver finds the frontier portfolio for a single target return
type pointSolver func(mu []float64, sigma mat.Symmetric, target float64, o *options) (*FrontierPoint, error)

type options struct {
	settings *solver.Settings
	workers  int
	riskFree float64
	solve    pointSolver
}

// Option configures the optimizer backed functions of this package
type Option func(*options)

// WithSolverSettings overrides the termination settings of the solver
func WithSolverSettings(settings *solver.Settings) Option {
	return func(o *options) {
		o.settings = settings
	}
}

// WithWorkers sets the number of frontier sweep points optimized
// concurrently. The default of 1 runs the sweep sequentially
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithRiskFreeRate sets the risk free rate used when reporting the Sharpe
// ratio of optimized portfolios
func WithRiskFreeRate(rf float64) Option {
	return func(o *options) {
		o.riskFree = rf
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		settings: solver.DefaultSettings(),
		workers:  1,
		solve:    minimumVolatilityFor,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}
