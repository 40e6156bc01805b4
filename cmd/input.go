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

package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-frontier/config"
	"github.com/penny-vault/pv-frontier/data"
	"github.com/penny-vault/pv-frontier/dataframe"
	"github.com/penny-vault/pv-frontier/portfolio"
)

// analysisInput is the cleaned price data and estimated moments shared by
// every analysis command
type analysisInput struct {
	conf      *config.Config
	assets    *dataframe.DataFrame
	benchmark *dataframe.DataFrame
	meta      *data.Metadata
	moments   *portfolio.Moments
}

// loadInput reads the configuration, loads and cleans the price file and
// estimates the annualized moments of the selected assets
func loadInput(ctx context.Context) (*analysisInput, error) {
	conf, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	raw, err := data.Load(ctx, conf.Prices.File)
	if err != nil {
		return nil, err
	}

	if conf.Prices.Trimmed() {
		start, end, err := conf.Prices.DateRange()
		if err != nil {
			return nil, err
		}
		raw = raw.Trim(start, end)
		log.Info().Time("Start", start).Time("End", end).Int("NumRows", raw.Len()).Msg("trimmed price history")
	}

	columns := append([]string{}, conf.Prices.Tickers...)
	if len(columns) > 0 && conf.Prices.Benchmark != "" {
		columns = append(columns, conf.Prices.Benchmark)
	}

	selected, err := data.Select(raw, columns...)
	if err != nil {
		return nil, err
	}

	assets, benchmark, meta, err := data.Clean(selected, conf.Prices.Benchmark, conf.Prices.ZThreshold)
	if err != nil {
		return nil, err
	}

	_, moments, err := portfolio.PrepareReturns(assets, conf.Analysis.Periods)
	if err != nil {
		return nil, err
	}

	return &analysisInput{
		conf:      conf,
		assets:    assets,
		benchmark: benchmark,
		meta:      meta,
		moments:   moments,
	}, nil
}

// options converts the configuration into optimizer options
func (in *analysisInput) options() []portfolio.Option {
	return []portfolio.Option{
		portfolio.WithWorkers(in.conf.Analysis.Workers),
		portfolio.WithRiskFreeRate(in.conf.Analysis.RiskFreeRate),
		portfolio.WithSolverSettings(in.conf.Solver.Settings()),
	}
}

// benchmarkPerformance is the annualized performance of holding only the
// benchmark; nil if no benchmark was configured
func (in *analysisInput) benchmarkPerformance() (*portfolio.Performance, error) {
	if in.benchmark == nil {
		return nil, nil
	}

	_, moments, err := portfolio.PrepareReturns(in.benchmark, in.conf.Analysis.Periods)
	if err != nil {
		return nil, err
	}

	perf, err := portfolio.PortfolioPerformance([]float64{1}, moments.Mu, moments.Sigma, in.conf.Analysis.RiskFreeRate)
	if err != nil {
		return nil, err
	}
	return &perf, nil
}
