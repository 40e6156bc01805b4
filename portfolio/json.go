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

	"github.com/goccy/go-json"
)

// nullable maps values that JSON cannot represent (NaN and ±Inf) to null
func nullable(val float64) *float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil
	}
	return &val
}

// MarshalJSON encodes an undefined Sharpe ratio as null
func (p Performance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Return     float64  `json:"return"`
		Volatility float64  `json:"volatility"`
		Sharpe     *float64 `json:"sharpe"`
	}{
		Return:     p.Return,
		Volatility: p.Volatility,
		Sharpe:     nullable(p.Sharpe),
	})
}

// MarshalJSON encodes an undefined Sharpe ratio as null
func (p FrontierPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Return     float64   `json:"return"`
		Volatility float64   `json:"volatility"`
		Sharpe     *float64  `json:"sharpe"`
		Weights    []float64 `json:"weights"`
		Status     string    `json:"status"`
	}{
		Return:     p.Return,
		Volatility: p.Volatility,
		Sharpe:     nullable(p.Sharpe),
		Weights:    p.Weights,
		Status:     p.Status.String(),
	})
}

// MarshalJSON encodes an undefined Sharpe ratio as null
func (d Draw) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Weights    []float64 `json:"weights"`
		Return     float64   `json:"return"`
		Volatility float64   `json:"volatility"`
		Sharpe     *float64  `json:"sharpe"`
	}{
		Weights:    d.Weights,
		Return:     d.Return,
		Volatility: d.Volatility,
		Sharpe:     nullable(d.Sharpe),
	})
}

// MarshalJSON includes the solver status by name
func (a Allocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Weights     []float64   `json:"weights"`
		Performance Performance `json:"performance"`
		Status      string      `json:"status"`
	}{
		Weights:     a.Weights,
		Performance: a.Performance,
		Status:      a.Status.String(),
	})
}
