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

import "github.com/rs/zerolog"

func (m *Moments) MarshalZerologObject(e *zerolog.Event) {
	e.Strs("Assets", m.Assets).Floats64("Mu", m.Mu).Floats64("Volatility", m.Volatilities()).Float64("Periods", m.Periods)
}

func (p *Performance) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Return", p.Return).Float64("Volatility", p.Volatility).Float64("Sharpe", p.Sharpe)
}

func (a *Allocation) MarshalZerologObject(e *zerolog.Event) {
	e.Floats64("Weights", a.Weights).
		Float64("Return", a.Performance.Return).
		Float64("Volatility", a.Performance.Volatility).
		Float64("Sharpe", a.Performance.Sharpe).
		Str("Status", a.Status.String())
}

func (p *FrontierPoint) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Return", p.Return).
		Float64("Volatility", p.Volatility).
		Float64("Sharpe", p.Sharpe).
		Floats64("Weights", p.Weights).
		Str("Status", p.Status.String())
}

func (d *Draw) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Return", d.Return).Float64("Volatility", d.Volatility).Float64("Sharpe", d.Sharpe).Floats64("Weights", d.Weights)
}
