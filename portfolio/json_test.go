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

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/optimize"

	"github.com/penny-vault/pv-frontier/portfolio"
)

var _ = Describe("JSON", func() {
	It("encodes an undefined sharpe ratio as null", func() {
		out, err := json.Marshal(portfolio.Performance{Return: 0.05, Volatility: 0, Sharpe: math.NaN()})
		Expect(err).To(BeNil())
		Expect(out).To(MatchJSON(`{"return": 0.05, "volatility": 0, "sharpe": null}`))
	})

	It("names the solver status of an allocation", func() {
		alloc := portfolio.Allocation{
			Weights:     []float64{0.25, 0.75},
			Performance: portfolio.Performance{Return: 0.1, Volatility: 0.2, Sharpe: 0.5},
			Status:      optimize.Success,
		}
		out, err := json.Marshal(alloc)
		Expect(err).To(BeNil())
		Expect(out).To(MatchJSON(`{
			"weights": [0.25, 0.75],
			"performance": {"return": 0.1, "volatility": 0.2, "sharpe": 0.5},
			"status": "Success"
		}`))
	})

	It("encodes frontier points and draws", func() {
		point := portfolio.FrontierPoint{Return: 0.1, Volatility: 0.2, Sharpe: 0.5, Weights: []float64{1}, Status: optimize.IterationLimit}
		out, err := json.Marshal([]portfolio.FrontierPoint{point})
		Expect(err).To(BeNil())
		Expect(out).To(MatchJSON(`[{"return": 0.1, "volatility": 0.2, "sharpe": 0.5, "weights": [1], "status": "IterationLimit"}]`))

		draw := portfolio.Draw{Weights: []float64{1}, Return: 0.1, Volatility: 0, Sharpe: math.NaN()}
		out, err = json.Marshal(draw)
		Expect(err).To(BeNil())
		Expect(out).To(MatchJSON(`{"weights": [1], "return": 0.1, "volatility": 0, "sharpe": null}`))
	})
})
