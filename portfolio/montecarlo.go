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
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// DefaultSimulations is the number of random portfolios drawn when the
// requested count is not positive
const DefaultSimulations = 5000

// Draw is a single randomly weighted portfolio
type Draw struct {
	Weights    []float64 `json:"weights"`
	Return     float64   `json:"return"`
	Volatility float64   `json:"volatility"`
	Sharpe     float64   `json:"sharpe"`
}

// Sample is a set of random long-only portfolios in draw order
type Sample struct {
	Seed  uint64 `json:"seed"`
	Draws []Draw `json:"draws"`
}

// SimulateRandomPortfolios draws n weight vectors uniformly from the
// probability simplex (a symmetric Dirichlet(1, ..., 1) distribution) and
// scores each of them. The same seed always produces the same sample.
func SimulateRandomPortfolios(mu []float64, sigma mat.Symmetric, n int, rf float64, seed uint64) (*Sample, error) {
	if err := validateMoments(mu, sigma); err != nil {
		return nil, err
	}

	if n <= 0 {
		n = DefaultSimulations
	}

	k := len(mu)
	alpha := make([]float64, k)
	for idx := range alpha {
		alpha[idx] = 1
	}
	dirichlet := distmv.NewDirichlet(alpha, rand.NewSource(seed))

	weights := mat.NewDense(n, k, nil)
	for row := 0; row < n; row++ {
		dirichlet.Rand(weights.RawRowView(row))
	}

	rets := mat.NewVecDense(n, nil)
	rets.MulVec(weights, mat.NewVecDense(k, mu))

	var ws mat.Dense
	ws.Mul(weights, sigma)

	sample := &Sample{
		Seed:  seed,
		Draws: make([]Draw, n),
	}

	for row := 0; row < n; row++ {
		w := weights.RawRowView(row)
		variance := floats.Dot(ws.RawRowView(row), w)
		if variance < -varianceTolerance {
			log.Error().Stack().Err(ErrInvalidCovariance).Float64("Variance", variance).Floats64("Weights", w).Msg("negative portfolio variance")
			return nil, ErrInvalidCovariance
		}

		vol := math.Sqrt(math.Max(variance, 0))
		ret := rets.AtVec(row)
		sample.Draws[row] = Draw{
			Weights:    w,
			Return:     ret,
			Volatility: vol,
			Sharpe:     sharpe(ret, vol, rf),
		}
	}

	log.Debug().Int("NumDraws", n).Uint64("Seed", seed).Msg("simulated random portfolios")

	return sample, nil
}

// MaxSharpe returns the draw with the highest Sharpe ratio; draws with an
// undefined Sharpe ratio are ignored. nil is returned if no draw qualifies
func (s *Sample) MaxSharpe() *Draw {
	var best *Draw
	for idx := range s.Draws {
		draw := &s.Draws[idx]
		if math.IsNaN(draw.Sharpe) {
			continue
		}
		if best == nil || draw.Sharpe > best.Sharpe {
			best = draw
		}
	}
	return best
}

// MinVolatility returns the least volatile draw
func (s *Sample) MinVolatility() *Draw {
	var best *Draw
	for idx := range s.Draws {
		draw := &s.Draws[idx]
		if best == nil || draw.Volatility < best.Volatility {
			best = draw
		}
	}
	return best
}

// Table renders up to limit draws as an ASCII table with one weight column
// per asset. limit <= 0 renders every draw
func (s *Sample) Table(assets []string, limit int) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)

	header := append([]string{"Return", "Volatility", "Sharpe"}, assets...)
	table.SetHeader(header)
	table.SetBorder(false)

	if limit <= 0 || limit > len(s.Draws) {
		limit = len(s.Draws)
	}

	for _, draw := range s.Draws[:limit] {
		table.Append(formatRow(draw.Return, draw.Volatility, draw.Sharpe, draw.Weights))
	}

	footer := make([]string, len(header))
	footer[0] = "Num Draws"
	footer[1] = fmt.Sprintf("%d", len(s.Draws))
	table.SetFooter(footer)

	table.Render()
	return buf.String()
}

func formatRow(ret, vol, sharpe float64, weights []float64) []string {
	row := []string{
		fmt.Sprintf("%.4f", ret),
		fmt.Sprintf("%.4f", vol),
		fmt.Sprintf("%.4f", sharpe),
	}
	for _, w := range weights {
		row = append(row, fmt.Sprintf("%.4f", w))
	}
	return row
}
