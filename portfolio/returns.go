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

	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultPeriods is the number of trading days in a year
const DefaultPeriods = 252.0

// Moments are the annualized first and second moments of asset log returns
type Moments struct {
	Assets  []string
	Mu      []float64
	Sigma   *mat.SymDense
	Periods float64
}

// Volatilities returns the annualized standard deviation of each asset
func (m *Moments) Volatilities() []float64 {
	vols := make([]float64, len(m.Mu))
	for idx := range vols {
		vols[idx] = math.Sqrt(m.Sigma.At(idx, idx))
	}
	return vols
}

// PrepareReturns converts a price table into log returns and estimates the
// annualized mean and sample covariance of those returns. periods is the
// number of observations per year; values <= 0 use DefaultPeriods.
//
// With exactly 2 price rows there is a single return observation and the
// sample covariance is undefined (NaN)
func PrepareReturns(prices *dataframe.DataFrame, periods float64) (*dataframe.DataFrame, *Moments, error) {
	if periods <= 0 {
		periods = DefaultPeriods
	}

	if prices.ColCount() == 0 {
		log.Error().Stack().Err(ErrNoAssets).Msg("cannot compute returns")
		return nil, nil, ErrNoAssets
	}

	if prices.Len() < 2 {
		log.Error().Stack().Err(ErrInsufficientData).Int("NumRows", prices.Len()).Msg("cannot compute returns")
		return nil, nil, ErrInsufficientData
	}

	for colIdx, col := range prices.Vals {
		for rowIdx, val := range col {
			if !(val > 0) || math.IsInf(val, 0) {
				log.Error().Stack().Err(ErrInvalidPrice).
					Str("Asset", prices.ColNames[colIdx]).
					Time("Date", prices.Dates[rowIdx]).
					Float64("Price", val).
					Msg("cannot compute returns")
				return nil, nil, ErrInvalidPrice
			}
		}
	}

	rets := prices.LogReturns()
	n := rets.ColCount()

	mu := make([]float64, n)
	for colIdx, col := range rets.Vals {
		mu[colIdx] = stat.Mean(col, nil) * periods
	}

	sigma := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(sigma, rets.Matrix(), nil)
	sigma.ScaleSym(periods, sigma)

	assets := make([]string, n)
	copy(assets, rets.ColNames)

	moments := &Moments{
		Assets:  assets,
		Mu:      mu,
		Sigma:   sigma,
		Periods: periods,
	}

	log.Debug().Object("Moments", moments).Int("NumReturns", rets.Len()).Msg("estimated annualized moments")

	return rets, moments, nil
}
