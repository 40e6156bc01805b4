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
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
)

var _ = Describe("Returns", func() {
	Context("with constant prices", func() {
		var (
			rets    *dataframe.DataFrame
			moments *portfolio.Moments
			err     error
		)

		BeforeEach(func() {
			prices := priceFrame([]string{"AAA", "BBB"},
				[]float64{10, 10, 10, 10, 10},
				[]float64{25, 25, 25, 25, 25},
			)
			rets, moments, err = portfolio.PrepareReturns(prices, portfolio.DefaultPeriods)
		})

		It("does not error", func() {
			Expect(err).To(BeNil())
		})

		It("has one less row than prices", func() {
			Expect(rets.Len()).To(Equal(4))
			Expect(rets.ColNames).To(Equal([]string{"AAA", "BBB"}))
		})

		It("has zero returns", func() {
			for _, col := range rets.Vals {
				for _, val := range col {
					Expect(val).To(Equal(0.0))
				}
			}
			Expect(moments.Mu).To(Equal([]float64{0, 0}))
		})

		It("has zero covariance", func() {
			for ii := 0; ii < 2; ii++ {
				for jj := 0; jj < 2; jj++ {
					Expect(moments.Sigma.At(ii, jj)).To(Equal(0.0))
				}
			}
		})
	})

	Context("with steadily growing prices", func() {
		It("annualizes the mean log return", func() {
			prices := priceFrame([]string{"GROW"}, []float64{100, 110, 121, 133.1})
			rets, moments, err := portfolio.PrepareReturns(prices, 252)
			Expect(err).To(BeNil())

			for _, val := range rets.Vals[0] {
				Expect(val).To(BeNumerically("~", math.Log(1.1), 1e-12))
			}
			Expect(moments.Mu[0]).To(BeNumerically("~", 252*math.Log(1.1), 1e-9))
			Expect(moments.Sigma.At(0, 0)).To(BeNumerically("~", 0, 1e-12))
			Expect(moments.Assets).To(Equal([]string{"GROW"}))
		})

		It("uses the default periods when periods is not positive", func() {
			prices := priceFrame([]string{"GROW"}, []float64{100, 110, 121})
			_, moments, err := portfolio.PrepareReturns(prices, 0)
			Expect(err).To(BeNil())
			Expect(moments.Periods).To(Equal(portfolio.DefaultPeriods))
		})
	})

	Context("with varying prices", func() {
		It("annualizes the sample covariance", func() {
			prices := priceFrame([]string{"A", "B"},
				[]float64{100, 101, 99, 102, 104},
				[]float64{50, 49, 51, 50, 52},
			)
			rets, moments, err := portfolio.PrepareReturns(prices, 12)
			Expect(err).To(BeNil())

			a := rets.Vals[0]
			b := rets.Vals[1]
			meanA := sum(a) / 4
			meanB := sum(b) / 4
			cov := 0.0
			for idx := range a {
				cov += (a[idx] - meanA) * (b[idx] - meanB)
			}
			cov /= 3

			Expect(moments.Mu[0]).To(BeNumerically("~", meanA*12, 1e-12))
			Expect(moments.Sigma.At(0, 1)).To(BeNumerically("~", cov*12, 1e-12))
			Expect(moments.Sigma.At(1, 0)).To(Equal(moments.Sigma.At(0, 1)))
			Expect(moments.Volatilities()[0]).To(BeNumerically("~", math.Sqrt(moments.Sigma.At(0, 0)), 1e-15))
		})
	})

	Context("with exactly two price rows", func() {
		It("has an undefined covariance", func() {
			prices := priceFrame([]string{"A"}, []float64{100, 105})
			_, moments, err := portfolio.PrepareReturns(prices, 252)
			Expect(err).To(BeNil())
			Expect(math.IsNaN(moments.Sigma.At(0, 0))).To(BeTrue())
		})
	})

	Context("with invalid input", func() {
		It("requires at least two rows", func() {
			prices := priceFrame([]string{"A"}, []float64{100})
			_, _, err := portfolio.PrepareReturns(prices, 252)
			Expect(err).To(MatchError(portfolio.ErrInsufficientData))
		})

		It("requires at least one asset", func() {
			_, _, err := portfolio.PrepareReturns(&dataframe.DataFrame{}, 252)
			Expect(err).To(MatchError(portfolio.ErrNoAssets))
		})

		It("rejects non-positive prices", func() {
			prices := priceFrame([]string{"A"}, []float64{100, 0, 101})
			_, _, err := portfolio.PrepareReturns(prices, 252)
			Expect(err).To(MatchError(portfolio.ErrInvalidPrice))
		})

		It("rejects missing prices", func() {
			prices := priceFrame([]string{"A"}, []float64{100, math.NaN(), 101})
			_, _, err := portfolio.PrepareReturns(prices, 252)
			Expect(err).To(MatchError(portfolio.ErrInvalidPrice))
		})
	})
})
