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

package dataframe

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// CountNaN returns the number of missing values in each column
func (df *DataFrame) CountNaN() map[string]int {
	res := make(map[string]int, len(df.ColNames))
	for colIdx, colName := range df.ColNames {
		cnt := 0
		for _, val := range df.Vals[colIdx] {
			if math.IsNaN(val) {
				cnt++
			}
		}
		res[colName] = cnt
	}
	return res
}

// ForwardFill returns a copy of the dataframe where every missing value is
// replaced by the last observed value in the same column. Missing values
// before the first observation are left as NaN
func (df *DataFrame) ForwardFill() *DataFrame {
	df = df.Copy()
	for colIdx := range df.Vals {
		last := math.NaN()
		for rowIdx, val := range df.Vals[colIdx] {
			if math.IsNaN(val) {
				df.Vals[colIdx][rowIdx] = last
			} else {
				last = val
			}
		}
	}
	return df
}

// LogReturns computes ln(x[t] / x[t-1]) for every column. The first row has no
// predecessor and is dropped so the result has one row fewer than df
func (df *DataFrame) LogReturns() *DataFrame {
	if df.Len() < 2 {
		res := &DataFrame{
			Dates:    []time.Time{},
			ColNames: df.ColNames,
			Vals:     make([][]float64, len(df.Vals)),
		}
		for colIdx := range res.Vals {
			res.Vals[colIdx] = []float64{}
		}
		return res
	}

	res := &DataFrame{
		Dates:    df.Dates[1:],
		ColNames: df.ColNames,
		Vals:     make([][]float64, len(df.Vals)),
	}

	for colIdx, col := range df.Vals {
		rets := make([]float64, len(col)-1)
		floats.DivTo(rets, col[1:], col[:len(col)-1])
		for idx := range rets {
			rets[idx] = math.Log(rets[idx])
		}
		res.Vals[colIdx] = rets
	}

	return res
}
