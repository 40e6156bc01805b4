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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("frontier sweep", func() {
	var (
		mu      []float64
		sigma   *mat.SymDense
		targets []float64
	)

	BeforeEach(func() {
		mu = []float64{0.05, 0.10}
		sigma = mat.NewSymDense(2, []float64{0.04, 0, 0, 0.09})
		targets = frontierTargets(mu, 5)
	})

	It("skips a target the solver cannot solve and keeps the rest", func() {
		complete, err := EfficientFrontier(mu, sigma, 5)
		Expect(err).To(BeNil())

		failed := targets[2]
		failing := Option(func(o *options) {
			o.solve = func(mu []float64, sigma mat.Symmetric, target float64, o *options) (*FrontierPoint, error) {
				if target == failed {
					return nil, ErrInvalidCovariance
				}
				return minimumVolatilityFor(mu, sigma, target, o)
			}
		})

		partial, err := EfficientFrontier(mu, sigma, 5, failing)
		Expect(err).To(BeNil())

		expected := make([]float64, 0, len(complete))
		for _, point := range complete {
			if point.Return != failed {
				expected = append(expected, point.Return)
			}
		}
		Expect(len(expected)).To(Equal(len(complete) - 1))

		returns := make([]float64, 0, len(partial))
		for _, point := range partial {
			returns = append(returns, point.Return)
		}
		Expect(returns).To(Equal(expected))
	})

	It("returns an empty frontier when every target fails", func() {
		failing := Option(func(o *options) {
			o.solve = func(mu []float64, sigma mat.Symmetric, target float64, o *options) (*FrontierPoint, error) {
				return nil, ErrInvalidCovariance
			}
		})

		frontier, err := EfficientFrontier(mu, sigma, 5, failing, WithWorkers(2))
		Expect(err).To(BeNil())
		Expect(frontier).To(BeEmpty())
	})
})
