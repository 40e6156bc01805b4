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
	"sort"

	"github.com/penny-vault/pv-frontier/solver"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// FrontierPoint is a single minimum-volatility portfolio on the efficient
// frontier
type FrontierPoint struct {
	Return     float64         `json:"return"`
	Volatility float64         `json:"volatility"`
	Sharpe     float64         `json:"sharpe"`
	Weights    []float64       `json:"weights"`
	Status     optimize.Status `json:"-"`
}

// EfficientFrontier sweeps points target returns evenly spaced between the
// lowest and highest expected asset return and finds the minimum volatility
// long-only portfolio for each. The returned points are sorted by volatility
// and dominated points (less return for more risk) are removed.
func EfficientFrontier(mu []float64, sigma mat.Symmetric, points int, opts ...Option) ([]FrontierPoint, error) {
	if err := validateMoments(mu, sigma); err != nil {
		return nil, err
	}

	if points <= 0 {
		points = DefaultFrontierPoints
	}

	o := newOptions(opts)
	targets := frontierTargets(mu, points)
	sweep := make([]*FrontierPoint, len(targets))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for idx, target := range targets {
		idx := idx
		target := target
		g.Go(func() error {
			point, err := o.solve(mu, sigma, target, o)
			if err != nil {
				log.Warn().Err(err).Float64("TargetReturn", target).Msg("skipping frontier point")
				return nil
			}
			sweep[idx] = point
			return nil
		})
	}

	// sweep points never return an error
	_ = g.Wait()

	frontier := make([]FrontierPoint, 0, len(sweep))
	for _, point := range sweep {
		if point != nil {
			frontier = append(frontier, *point)
		}
	}

	sort.SliceStable(frontier, func(i, j int) bool {
		return frontier[i].Volatility < frontier[j].Volatility
	})

	efficient := frontier[:0]
	maxReturn := math.Inf(-1)
	for _, point := range frontier {
		if point.Return >= maxReturn {
			maxReturn = point.Return
			efficient = append(efficient, point)
		}
	}

	log.Debug().Int("NumTargets", len(targets)).Int("NumSolved", len(frontier)).Int("NumEfficient", len(efficient)).Msg("built efficient frontier")

	return efficient, nil
}

// frontierTargets returns n return targets spanning [min(mu), max(mu)]
func frontierTargets(mu []float64, n int) []float64 {
	lo := floats.Min(mu)
	hi := floats.Max(mu)
	if n == 1 || lo == hi {
		return []float64{lo}
	}
	targets := floats.Span(make([]float64, n), lo, hi)
	// round-off can leave the last target above max(mu), which no long-only
	// portfolio can reach
	targets[n-1] = hi
	return targets
}

// minimumVolatilityFor finds the least volatile long-only portfolio whose
// expected return equals target. The recorded return is the target itself.
func minimumVolatilityFor(mu []float64, sigma mat.Symmetric, target float64, o *options) (*FrontierPoint, error) {
	res, err := solver.Minimize(solver.Problem{
		Objective: Volatility{Sigma: sigma},
		Constraints: []solver.Constraint{
			solver.SumToOne(),
			solver.ReturnEquals(mu, target),
		},
		Dim: len(mu),
	}, o.settings)
	if err != nil {
		return nil, err
	}

	if math.IsNaN(res.F) {
		return nil, ErrInvalidCovariance
	}

	point := &FrontierPoint{
		Return:     target,
		Volatility: res.F,
		Sharpe:     sharpe(target, res.F, o.riskFree),
		Weights:    res.X,
		Status:     res.Status,
	}

	log.Debug().Object("Point", point).Msg("solved frontier point")

	return point, nil
}

// validateMoments checks that mu and sigma describe the same non-empty set of
// assets
func validateMoments(mu []float64, sigma mat.Symmetric) error {
	if len(mu) == 0 {
		log.Error().Stack().Err(ErrNoAssets).Msg("no assets to optimize")
		return ErrNoAssets
	}

	if sigma == nil || sigma.SymmetricDim() != len(mu) {
		dim := 0
		if sigma != nil {
			dim = sigma.SymmetricDim()
		}
		log.Error().Stack().Err(ErrDimensionMismatch).Int("NumMu", len(mu)).Int("SigmaDim", dim).Msg("expected returns and covariance do not match")
		return ErrDimensionMismatch
	}

	n := len(mu)
	for ii := 0; ii < n; ii++ {
		if math.IsNaN(mu[ii]) || math.IsInf(mu[ii], 0) {
			log.Error().Stack().Err(ErrInvalidCovariance).Int("Asset", ii).Float64("Mu", mu[ii]).Msg("expected return is not finite")
			return ErrInvalidCovariance
		}
		for jj := 0; jj <= ii; jj++ {
			if val := sigma.At(ii, jj); math.IsNaN(val) || math.IsInf(val, 0) {
				log.Error().Stack().Err(ErrInvalidCovariance).Int("Row", ii).Int("Col", jj).Msg("covariance is not finite")
				return ErrInvalidCovariance
			}
		}
	}

	return nil
}
