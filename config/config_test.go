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

package config_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-frontier/config"
	"github.com/penny-vault/pv-frontier/data"
	"github.com/penny-vault/pv-frontier/portfolio"
	"github.com/penny-vault/pv-frontier/solver"
)

const sampleConfig = `
[prices]
file = "prices.csv"
tickers = ["vti", "bnd", "gld"]
benchmark = "spy"

[analysis]
risk_free_rate = 0.02
frontier_points = 50
seed = 7
workers = 4

[log]
level = "debug"
pretty = true
`

var _ = Describe("Config", func() {
	var (
		v *viper.Viper
	)

	BeforeEach(func() {
		v = viper.New()
		config.SetDefaults(v)
	})

	Context("with a toml config file", func() {
		var (
			conf *config.Config
		)

		BeforeEach(func() {
			v.SetConfigType("toml")
			Expect(v.ReadConfig(bytes.NewBufferString(sampleConfig))).To(Succeed())

			var err error
			conf, err = config.FromViper(v)
			Expect(err).To(BeNil())
		})

		It("reads the price settings", func() {
			Expect(conf.Prices.File).To(Equal("prices.csv"))
			Expect(conf.Prices.Tickers).To(Equal([]string{"VTI", "BND", "GLD"}))
			Expect(conf.Prices.Benchmark).To(Equal("SPY"))
		})

		It("reads the analysis settings", func() {
			Expect(conf.Analysis.RiskFreeRate).To(Equal(0.02))
			Expect(conf.Analysis.FrontierPoints).To(Equal(50))
			Expect(conf.Analysis.Seed).To(Equal(uint64(7)))
			Expect(conf.Analysis.Workers).To(Equal(4))
			Expect(conf.Log.Level).To(Equal("debug"))
			Expect(conf.Log.Pretty).To(BeTrue())
		})

		It("falls back to defaults", func() {
			Expect(conf.Prices.ZThreshold).To(Equal(data.DefaultZThreshold))
			Expect(conf.Analysis.Periods).To(Equal(portfolio.DefaultPeriods))
			Expect(conf.Analysis.Simulations).To(Equal(portfolio.DefaultSimulations))
			Expect(conf.Log.Output).To(Equal("stderr"))
			Expect(conf.Solver.Settings()).To(Equal(solver.DefaultSettings()))
		})

		It("dumps a config that reads back identically", func() {
			dump, err := conf.TOML()
			Expect(err).To(BeNil())
			Expect(string(dump)).To(ContainSubstring("risk_free_rate"))

			v2 := viper.New()
			config.SetDefaults(v2)
			v2.SetConfigType("toml")
			Expect(v2.ReadConfig(bytes.NewReader(dump))).To(Succeed())

			conf2, err := config.FromViper(v2)
			Expect(err).To(BeNil())
			Expect(conf2).To(Equal(conf))
		})
	})

	It("splits comma separated tickers", func() {
		v.Set("prices.file", "prices.csv")
		v.Set("prices.tickers", "vti, bnd,gld")
		conf, err := config.FromViper(v)
		Expect(err).To(BeNil())
		Expect(conf.Prices.Tickers).To(Equal([]string{"VTI", "BND", "GLD"}))
	})

	DescribeTable("rejects invalid settings",
		func(key string, val interface{}, expected error) {
			v.Set("prices.file", "prices.csv")
			v.Set(key, val)
			_, err := config.FromViper(v)
			Expect(err).To(MatchError(expected))
		},
		Entry("missing prices file", "prices.file", "", config.ErrMissingPricesFile),
		Entry("zero periods", "analysis.periods", 0, config.ErrInvalidPeriods),
		Entry("negative workers", "analysis.workers", -1, config.ErrInvalidWorkers),
		Entry("zero solver iterations", "solver.max_iterations", 0, config.ErrInvalidSolver),
		Entry("malformed start date", "prices.start", "01/02/2020", config.ErrInvalidDateRange),
	)

	Context("with a date range", func() {
		It("parses both bounds", func() {
			p := config.Prices{Start: "2020-01-01", End: "2020-12-31"}
			start, end, err := p.DateRange()
			Expect(err).To(BeNil())
			Expect(start).To(Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)))
			Expect(p.Trimmed()).To(BeTrue())
		})

		It("leaves missing bounds open", func() {
			p := config.Prices{End: "2020-12-31"}
			start, _, err := p.DateRange()
			Expect(err).To(BeNil())
			Expect(start.IsZero()).To(BeTrue())
			Expect(config.Prices{}.Trimmed()).To(BeFalse())
		})

		It("rejects an end before the start", func() {
			p := config.Prices{Start: "2021-01-01", End: "2020-12-31"}
			_, _, err := p.DateRange()
			Expect(err).To(MatchError(config.ErrInvalidDateRange))
		})
	})
})
