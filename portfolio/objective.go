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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Volatility is the solver objective sqrt(wᵗ·Sigma·w). A variance that is
// negative beyond round-off evaluates to NaN
type Volatility struct {
	Sigma mat.Symmetric
}

func (v Volatility) Func(w []float64) float64 {
	variance := quadForm(v.Sigma, w)
	if variance < -varianceTolerance {
		return math.NaN()
	}
	return math.Sqrt(math.Max(variance, 0))
}

// Grad stores Sigma·w / vol in grad
func (v Volatility) Grad(grad, w []float64) {
	sw := mat.NewVecDense(len(grad), grad)
	sw.MulVec(v.Sigma, mat.NewVecDense(len(w), w))

	vol := v.Func(w)
	if vol > 0 {
		floats.Scale(1/vol, grad)
	}
}

// NegativeSharpe is the solver objective -(w·Mu - RiskFree) / vol; minimizing
// it maximizes the Sharpe ratio. Portfolios without volatility have no Sharpe
// ratio and evaluate to +Inf so they are never preferred
type NegativeSharpe struct {
	Mu       []float64
	Sigma    mat.Symmetric
	RiskFree float64
}

func (ns NegativeSharpe) Func(w []float64) float64 {
	vol := Volatility{Sigma: ns.Sigma}.Func(w)
	if math.IsNaN(vol) {
		return math.NaN()
	}
	if vol == 0 {
		return math.Inf(1)
	}
	return -(floats.Dot(w, ns.Mu) - ns.RiskFree) / vol
}

// Grad stores -Mu/vol + (ret - RiskFree)·Sigma·w/vol³ in grad
func (ns NegativeSharpe) Grad(grad, w []float64) {
	sw := mat.NewVecDense(len(grad), grad)
	sw.MulVec(ns.Sigma, mat.NewVecDense(len(w), w))

	variance := floats.Dot(w, grad)
	if !(variance > 0) {
		for idx := range grad {
			grad[idx] = 0
		}
		return
	}

	vol := math.Sqrt(variance)
	excess := floats.Dot(w, ns.Mu) - ns.RiskFree
	floats.Scale(excess/(variance*vol), grad)
	floats.AddScaled(grad, -1/vol, ns.Mu)
}
