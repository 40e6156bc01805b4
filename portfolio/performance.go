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

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// varianceTolerance is the magnitude below which a negative portfolio
// variance is treated as round-off and clamped to zero
const varianceTolerance = 1e-12

// Performance is the expected return, volatility and Sharpe ratio of a
// weighted portfolio. Sharpe is NaN when the volatility is zero
type Performance struct {
	Return     float64 `json:"return"`
	Volatility float64 `json:"volatility"`
	Sharpe     float64 `json:"sharpe"`
}

// PortfolioPerformance scores the weight vector w against the annualized
// moments mu and sigma.
//
//	ret    = w·mu
//	vol    = sqrt(wᵗ·sigma·w)
//	sharpe = (ret - rf) / vol
func PortfolioPerformance(w, mu []float64, sigma mat.Symmetric, rf float64) (Performance, error) {
	if len(mu) == 0 {
		log.Error().Stack().Err(ErrNoAssets).Msg("cannot compute portfolio performance")
		return Performance{}, ErrNoAssets
	}

	if len(w) != len(mu) || sigma.SymmetricDim() != len(mu) {
		log.Error().Stack().Err(ErrDimensionMismatch).Int("NumWeights", len(w)).Int("NumMu", len(mu)).Int("SigmaDim", sigma.SymmetricDim()).Msg("cannot compute portfolio performance")
		return Performance{}, ErrDimensionMismatch
	}

	ret := floats.Dot(w, mu)
	variance := quadForm(sigma, w)
	if variance < -varianceTolerance {
		log.Error().Stack().Err(ErrInvalidCovariance).Float64("Variance", variance).Floats64("Weights", w).Msg("negative portfolio variance")
		return Performance{}, ErrInvalidCovariance
	}

	vol := math.Sqrt(math.Max(variance, 0))
	return Performance{
		Return:     ret,
		Volatility: vol,
		Sharpe:     sharpe(ret, vol, rf),
	}, nil
}

func sharpe(ret, vol, rf float64) float64 {
	if vol > 0 {
		return (ret - rf) / vol
	}
	return math.NaN()
}

// quadForm computes wᵗ·sigma·w
func quadForm(sigma mat.Symmetric, w []float64) float64 {
	v := mat.NewVecDense(len(w), w)
	return mat.Inner(v, sigma, v)
}
