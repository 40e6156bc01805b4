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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-frontier/dataframe"
)

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame{}
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero columns", func() {
			Expect(df.ColCount()).To(Equal(0))
		})

		It("does not error on drop", func() {
			df = df.Drop(1)
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on trim", func() {
			df = df.Trim(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(df.Len()).To(Equal(0))
		})

		It("prints a placeholder table", func() {
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})

		It("has an empty matrix", func() {
			Expect(df.Matrix().IsEmpty()).To(BeTrue())
		})
	})

	Context("when constructed with New", func() {
		It("rejects columns that do not match the date index", func() {
			_, err := dataframe.New([]time.Time{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}, []string{"A"}, [][]float64{{1, 2}})
			Expect(err).To(MatchError(dataframe.ErrColumnLengthInvalid))
		})

		It("rejects dates that are not ascending", func() {
			dates := []time.Time{
				time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			_, err := dataframe.New(dates, []string{"A"}, [][]float64{{1, 2}})
			Expect(err).To(MatchError(dataframe.ErrDateIndexNotAligned))
		})

		It("accepts a valid table", func() {
			dates := []time.Time{
				time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
			}
			df, err := dataframe.New(dates, []string{"A", "B"}, [][]float64{{1, 2}, {3, 4}})
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(2))
			Expect(df.ColCount()).To(Equal(2))
		})
	})

	Context("with 2 years of values and a single column", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			dates := make([]time.Time, 730)
			vals := make([]float64, 730)
			dt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
				vals[idx] = float64(idx)
			}
			df = &dataframe.DataFrame{
				ColNames: []string{"Col1"},
				Dates:    dates,
				Vals:     [][]float64{vals},
			}
		})

		It("has length", func() {
			Expect(df.Len()).To(Equal(730))
		})

		It("has 1 column", func() {
			Expect(df.ColCount()).To(Equal(1))
		})

		It("can remove all 0s with drop", func() {
			df2 := df.Drop(0)
			Expect(df2.Len()).To(Equal(729))
			Expect(df2.Vals[0][0]).To(BeNumerically("==", 1.0))
			Expect(df.Len()).To(Equal(730))
		})

		It("looks up columns by name", func() {
			Expect(df.ColIndex("Col1")).To(Equal(0))
			Expect(df.ColIndex("Missing")).To(Equal(-1))
			Expect(df.Column("Col1")).To(HaveLen(730))
			Expect(df.Column("Missing")).To(BeNil())
		})

		It("copies values deeply", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 100
			Expect(df.Vals[0][0]).To(Equal(0.0))
		})

		DescribeTable("trims values by date range", func(a, b time.Time, expectedLen int, expectedA, expectedB time.Time) {
			df = df.Trim(a, b)
			Expect(df.Len()).To(Equal(expectedLen))
			if expectedLen > 0 {
				Expect(df.Start()).To(Equal(expectedA))
				Expect(df.End()).To(Equal(expectedB))
			}
		},
			Entry("when range is same as df", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 12, 30, 0, 0, 0, 0, time.UTC), 730, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 12, 30, 0, 0, 0, 0, time.UTC)),
			Entry("when range is a subset", time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC), 10, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC)),
			Entry("when range is before df", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
			Entry("when range is after df", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
			Entry("when end is before begin", time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), 0, time.Time{}, time.Time{}),
		)

		It("renders a table with a footer", func() {
			tbl := df.Trim(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)).Table()
			Expect(tbl).To(ContainSubstring("2020-01-02"))
			Expect(tbl).To(ContainSubstring("COL1"))
		})
	})

	Context("with multiple columns", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
					time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC),
				},
				ColNames: []string{"A", "B", "SPY"},
				Vals: [][]float64{
					{1, math.NaN(), 3},
					{4, 5, 6},
					{7, 8, 9},
				},
			}
		})

		It("splits the requested columns off", func() {
			bench, assets := df.Split("SPY")
			Expect(bench.ColNames).To(Equal([]string{"SPY"}))
			Expect(assets.ColNames).To(Equal([]string{"A", "B"}))
			Expect(assets.Vals[1]).To(Equal([]float64{4, 5, 6}))
		})

		It("drops rows with missing values", func() {
			df2 := df.Drop(math.NaN())
			Expect(df2.Len()).To(Equal(2))
			Expect(df2.Dates[1]).To(Equal(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)))
			Expect(df2.Vals[2]).To(Equal([]float64{7, 9}))
		})

		It("builds a row-major matrix", func() {
			m := df.Matrix()
			r, c := m.Dims()
			Expect(r).To(Equal(3))
			Expect(c).To(Equal(3))
			Expect(m.At(2, 1)).To(Equal(6.0))
		})
	})
})
