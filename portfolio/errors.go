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

import "errors"

var (
	ErrInsufficientData  = errors.New("at least 2 price observations are required")
	ErrInvalidCovariance = errors.New("covariance matrix is not positive semi-definite")
	ErrInvalidPrice      = errors.New("prices must be positive and finite")
	ErrNoAssets          = errors.New("price table has no assets")
	ErrDimensionMismatch = errors.New("weights, expected returns and covariance dimensions do not match")
	ErrTargetVolatility  = errors.New("target volatility is below the global minimum variance portfolio")
	ErrDidNotConverge    = errors.New("did not converge")
)
