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

package portfolio_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/portfolio"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Optimal portfolios", func() {
	Context("with two uncorrelated assets", func() {
		var (
			mu    []float64
			sigma *mat.SymDense
		)

		BeforeEach(func() {
			mu = []float64{0.1, 0.2}
			sigma = diag(0.04, 0.09)
		})

		It("finds the global minimum variance portfolio", func() {
			alloc, err := portfolio.GlobalMinVariance(mu, sigma)
			Expect(err).To(BeNil())
			Expect(alloc.Converged()).To(BeTrue())
			Expect(alloc.Weights[0]).To(BeNumerically("~", 0.6923, 1e-3))
			Expect(alloc.Weights[1]).To(BeNumerically("~", 0.3077, 1e-3))
			Expect(alloc.Performance.Volatility).To(BeNumerically("~", 0.1664, 1e-3))
			Expect(sum(alloc.Weights)).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("is no more volatile than the equal weight portfolio", func() {
			alloc, err := portfolio.GlobalMinVariance(mu, sigma)
			Expect(err).To(BeNil())

			equal, err := portfolio.PortfolioPerformance([]float64{0.5, 0.5}, mu, sigma, 0)
			Expect(err).To(BeNil())
			Expect(alloc.Performance.Volatility).To(BeNumerically("<=", equal.Volatility))
		})

		It("finds the maximum sharpe ratio portfolio", func() {
			alloc, err := portfolio.MaxSharpeRatio(mu, sigma, 0)
			Expect(err).To(BeNil())
			Expect(alloc.Converged()).To(BeTrue())
			Expect(alloc.Weights[0]).To(BeNumerically("~", 0.5294, 1e-3))
			Expect(alloc.Weights[1]).To(BeNumerically("~", 0.4706, 1e-3))
			Expect(alloc.Performance.Sharpe).To(BeNumerically("~", 0.8333, 1e-3))
			Expect(sum(alloc.Weights)).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("reports the sharpe ratio against the risk free rate", func() {
			alloc, err := portfolio.MaxSharpeRatio(mu, sigma, 0.02)
			Expect(err).To(BeNil())

			perf, err := portfolio.PortfolioPerformance(alloc.Weights, mu, sigma, 0.02)
			Expect(err).To(BeNil())
			Expect(alloc.Performance.Sharpe).To(BeNumerically("~", perf.Sharpe, 1e-12))
		})
	})

	Context("with a single asset", func() {
		It("invests everything in the asset", func() {
			mu := []float64{0.08}
			sigma := diag(0.02)

			gmv, err := portfolio.GlobalMinVariance(mu, sigma)
			Expect(err).To(BeNil())
			Expect(gmv.Weights).To(Equal([]float64{1.0}))

			msr, err := portfolio.MaxSharpeRatio(mu, sigma, 0.01)
			Expect(err).To(BeNil())
			Expect(msr.Weights).To(Equal([]float64{1.0}))
			Expect(msr.Performance.Sharpe).To(BeNumerically("~", 0.07/math.Sqrt(0.02), 1e-12))
		})
	})

	Context("with three correlated assets", func() {
		var (
			mu    []float64
			sigma *mat.SymDense
		)

		BeforeEach(func() {
			mu = []float64{0.06, 0.09, 0.14}
			sigma = mat.NewSymDense(3, []float64{
				0.020, 0.006, 0.004,
				0.006, 0.045, 0.012,
				0.004, 0.012, 0.090,
			})
		})

		It("keeps weights on the probability simplex", func() {
			gmv, err := portfolio.GlobalMinVariance(mu, sigma)
			Expect(err).To(BeNil())
			msr, err := portfolio.MaxSharpeRatio(mu, sigma, 0.01)
			Expect(err).To(BeNil())

			for _, alloc := range []*portfolio.Allocation{gmv, msr} {
				Expect(sum(alloc.Weights)).To(BeNumerically("~", 1.0, 1e-6))
				for _, w := range alloc.Weights {
					Expect(w).To(BeNumerically(">=", 0))
					Expect(w).To(BeNumerically("<=", 1))
				}
			}
		})

		It("beats every corner portfolio", func() {
			gmv, err := portfolio.GlobalMinVariance(mu, sigma)
			Expect(err).To(BeNil())
			msr, err := portfolio.MaxSharpeRatio(mu, sigma, 0.01)
			Expect(err).To(BeNil())

			for idx := range mu {
				w := make([]float64, 3)
				w[idx] = 1
				perf, err := portfolio.PortfolioPerformance(w, mu, sigma, 0.01)
				Expect(err).To(BeNil())
				Expect(gmv.Performance.Volatility).To(BeNumerically("<=", perf.Volatility+1e-6))
				Expect(msr.Performance.Sharpe).To(BeNumerically(">=", perf.Sharpe-1e-6))
			}
		})
	})

	Context("with a volatility target", func() {
		var (
			mu    []float64
			sigma *mat.SymDense
		)

		BeforeEach(func() {
			mu = []float64{0.1, 0.2}
			sigma = diag(0.04, 0.09)
		})

		It("finds the frontier portfolio with the target volatility", func() {
			alloc, err := portfolio.EfficientRisk(mu, sigma, 0.2)
			Expect(err).To(BeNil())
			Expect(alloc.Performance.Volatility).To(BeNumerically("~", 0.2, 1e-6))
			Expect(alloc.Weights[1]).To(BeNumerically(">", 0.3077))
			Expect(sum(alloc.Weights)).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("returns the highest return portfolio for a large target", func() {
			alloc, err := portfolio.EfficientRisk(mu, sigma, 0.5)
			Expect(err).To(BeNil())
			Expect(alloc.Weights[1]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(alloc.Performance.Return).To(BeNumerically("~", 0.2, 1e-6))
		})

		It("rejects a target below the minimum volatility", func() {
			_, err := portfolio.EfficientRisk(mu, sigma, 0.1)
			Expect(err).To(MatchError(portfolio.ErrTargetVolatility))
		})
	})

	Context("with invalid moments", func() {
		It("rejects an empty universe", func() {
			_, err := portfolio.GlobalMinVariance(nil, mat.NewSymDense(1, nil))
			Expect(err).To(MatchError(portfolio.ErrNoAssets))
		})

		It("rejects mismatched dimensions", func() {
			_, err := portfolio.MaxSharpeRatio([]float64{0.1, 0.2}, diag(0.04), 0)
			Expect(err).To(MatchError(portfolio.ErrDimensionMismatch))
		})

		It("rejects the undefined covariance of a single return", func() {
			_, err := portfolio.GlobalMinVariance([]float64{0.1, 0.2}, diag(math.NaN(), 0.04))
			Expect(err).To(MatchError(portfolio.ErrInvalidCovariance))
		})
	})
})
