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
	"math"

	"github.com/penny-vault/pv-frontier/solver"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// riskTolerance is the precision to which EfficientRisk matches the target
// volatility
const riskTolerance = 1e-8

// Allocation is an optimized weight vector together with its performance and
// the status reported by the solver
type Allocation struct {
	Weights     []float64       `json:"weights"`
	Performance Performance     `json:"performance"`
	Status      optimize.Status `json:"-"`
}

// Converged reports whether the solver found a stationary point
func (a *Allocation) Converged() bool {
	return solver.Converged(a.Status)
}

// GlobalMinVariance finds the long-only portfolio with the lowest volatility
func GlobalMinVariance(mu []float64, sigma mat.Symmetric, opts ...Option) (*Allocation, error) {
	if err := validateMoments(mu, sigma); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	return optimizeAllocation(Volatility{Sigma: sigma}, mu, sigma, o.riskFree, o)
}

// MaxSharpeRatio finds the long-only portfolio with the highest Sharpe ratio
// for the risk free rate rf
func MaxSharpeRatio(mu []float64, sigma mat.Symmetric, rf float64, opts ...Option) (*Allocation, error) {
	if err := validateMoments(mu, sigma); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	objective := NegativeSharpe{
		Mu:       mu,
		Sigma:    sigma,
		RiskFree: rf,
	}
	return optimizeAllocation(objective, mu, sigma, rf, o)
}

// EfficientRisk finds the efficient portfolio with the highest expected
// return whose volatility does not exceed targetVol. Targets below the
// volatility of the global minimum variance portfolio fail with
// ErrTargetVolatility.
func EfficientRisk(mu []float64, sigma mat.Symmetric, targetVol float64, opts ...Option) (*Allocation, error) {
	gmv, err := GlobalMinVariance(mu, sigma, opts...)
	if err != nil {
		return nil, err
	}

	if targetVol < gmv.Performance.Volatility-riskTolerance {
		log.Error().Stack().Err(ErrTargetVolatility).Float64("TargetVolatility", targetVol).Float64("MinVolatility", gmv.Performance.Volatility).Msg("cannot reach target volatility")
		return nil, ErrTargetVolatility
	}

	o := newOptions(opts)
	maxReturn := floats.Max(mu)
	if gmv.Performance.Return >= maxReturn || targetVol <= gmv.Performance.Volatility+riskTolerance {
		return gmv, nil
	}

	top, err := o.solve(mu, sigma, maxReturn, o)
	if err != nil {
		return nil, err
	}

	if targetVol >= top.Volatility {
		return pointAllocation(top, mu, sigma, o.riskFree)
	}

	excessRisk := func(target float64) float64 {
		point, err := o.solve(mu, sigma, target, o)
		if err != nil {
			return math.NaN()
		}
		return point.Volatility - targetVol
	}

	target, err := fsolve(excessRisk, gmv.Performance.Return, maxReturn, riskTolerance)
	if err != nil {
		log.Error().Stack().Err(err).Float64("TargetVolatility", targetVol).Msg("could not find return for target volatility")
		return nil, err
	}

	point, err := o.solve(mu, sigma, target, o)
	if err != nil {
		return nil, err
	}

	return pointAllocation(point, mu, sigma, o.riskFree)
}

func optimizeAllocation(objective solver.Objective, mu []float64, sigma mat.Symmetric, rf float64, o *options) (*Allocation, error) {
	res, err := solver.Minimize(solver.Problem{
		Objective:   objective,
		Constraints: []solver.Constraint{solver.SumToOne()},
		Dim:         len(mu),
	}, o.settings)
	if err != nil {
		return nil, err
	}

	perf, err := PortfolioPerformance(res.X, mu, sigma, rf)
	if err != nil {
		return nil, err
	}

	alloc := &Allocation{
		Weights:     res.X,
		Performance: perf,
		Status:      res.Status,
	}

	log.Debug().Object("Allocation", alloc).Msg("optimized allocation")

	return alloc, nil
}

func pointAllocation(point *FrontierPoint, mu []float64, sigma mat.Symmetric, rf float64) (*Allocation, error) {
	perf, err := PortfolioPerformance(point.Weights, mu, sigma, rf)
	if err != nil {
		return nil, err
	}

	return &Allocation{
		Weights:     point.Weights,
		Performance: perf,
		Status:      point.Status,
	}, nil
}
