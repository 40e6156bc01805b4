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
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/pv-frontier/data"
	"github.com/penny-vault/pv-frontier/portfolio"
)

func init() {
	analyzeCmd.Flags().Int("points", portfolio.DefaultFrontierPoints, "Number of target returns swept along the efficient frontier")
	analyzeCmd.Flags().Int("simulations", portfolio.DefaultSimulations, "Number of random portfolios to draw")
	analyzeCmd.Flags().Uint64("seed", 42, "Seed of the random portfolio generator")
	analyzeCmd.Flags().Float64("target-volatility", 0, "Also find the highest return portfolio with at most this volatility")

	rootCmd.AddCommand(analyzeCmd)
}

// analysisReport is the complete result of the analyze command
type analysisReport struct {
	Metadata    *data.Metadata            `json:"metadata"`
	Assets      []string                  `json:"assets"`
	Mu          []float64                 `json:"mu"`
	Volatility  []float64                 `json:"volatility"`
	Allocations []namedAllocation         `json:"allocations"`
	Benchmark   *portfolio.Performance    `json:"benchmark,omitempty"`
	Frontier    []portfolio.FrontierPoint `json:"frontier"`
	MaxSharpe   *portfolio.Draw           `json:"simulated_max_sharpe"`
	MinVol      *portfolio.Draw           `json:"simulated_min_volatility"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the complete mean-variance analysis of a price file",
	Long: `Clean the price file, estimate annualized returns and covariance, and report
the global minimum variance and maximum Sharpe ratio portfolios, the efficient
frontier and the best portfolios of a Monte Carlo sample.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindLocalFlags(cmd, map[string]string{
			"analysis.frontier_points":   "points",
			"analysis.simulations":       "simulations",
			"analysis.seed":              "seed",
			"analysis.target_volatility": "target-volatility",
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		in, err := loadInput(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not prepare price data")
		}

		report, err := analyze(in)
		if err != nil {
			log.Fatal().Err(err).Msg("analysis failed")
		}

		out := cmd.OutOrStdout()
		if JSONOutput {
			if err := writeJSON(out, report); err != nil {
				log.Fatal().Err(err).Msg("could not encode report")
			}
			return
		}

		writeReport(out, in, report)
	},
}

// writeReport renders the report as tables
func writeReport(w io.Writer, in *analysisInput, report *analysisReport) {
	writeMetadata(w, report.Metadata)
	fmt.Fprintln(w)
	writeMoments(w, in.moments)
	fmt.Fprintln(w)
	writeAllocations(w, report.Assets, report.Allocations)
	if report.Benchmark != nil {
		fmt.Fprintf(w, "\nBenchmark %s: return %s, volatility %s, sharpe %s\n", in.conf.Prices.Benchmark,
			pct(report.Benchmark.Return), pct(report.Benchmark.Volatility), ratio(report.Benchmark.Sharpe))
	}
	fmt.Fprintln(w)
	writeFrontier(w, report.Assets, report.Frontier)
	fmt.Fprintln(w)
	writeDraws(w, report.Assets, map[string]*portfolio.Draw{
		"Max Sharpe":     report.MaxSharpe,
		"Min Volatility": report.MinVol,
	})
}

func analyze(in *analysisInput) (*analysisReport, error) {
	mu := in.moments.Mu
	sigma := in.moments.Sigma
	analysis := in.conf.Analysis
	opts := in.options()

	report := &analysisReport{
		Metadata:   in.meta,
		Assets:     in.moments.Assets,
		Mu:         mu,
		Volatility: in.moments.Volatilities(),
	}

	gmv, err := portfolio.GlobalMinVariance(mu, sigma, opts...)
	if err != nil {
		return nil, err
	}

	msr, err := portfolio.MaxSharpeRatio(mu, sigma, analysis.RiskFreeRate, opts...)
	if err != nil {
		return nil, err
	}

	report.Allocations = []namedAllocation{
		{Name: "Min Variance", Allocation: gmv},
		{Name: "Max Sharpe", Allocation: msr},
	}

	if analysis.TargetVolatility > 0 {
		target, err := portfolio.EfficientRisk(mu, sigma, analysis.TargetVolatility, opts...)
		if err != nil {
			return nil, err
		}
		report.Allocations = append(report.Allocations, namedAllocation{
			Name:       fmt.Sprintf("Target %s", pct(analysis.TargetVolatility)),
			Allocation: target,
		})
	}

	for _, named := range report.Allocations {
		if !named.Allocation.Converged() {
			log.Warn().Str("Portfolio", named.Name).Object("Allocation", named.Allocation).Msg("optimizer did not converge")
		}
	}

	report.Benchmark, err = in.benchmarkPerformance()
	if err != nil {
		return nil, err
	}

	report.Frontier, err = portfolio.EfficientFrontier(mu, sigma, analysis.FrontierPoints, opts...)
	if err != nil {
		return nil, err
	}

	sample, err := portfolio.SimulateRandomPortfolios(mu, sigma, analysis.Simulations, analysis.RiskFreeRate, analysis.Seed)
	if err != nil {
		return nil, err
	}
	report.MaxSharpe = sample.MaxSharpe()
	report.MinVol = sample.MinVolatility()

	if report.MinVol != nil && gmv.Converged() && report.MinVol.Volatility < gmv.Performance.Volatility {
		log.Warn().Float64("SampleVolatility", report.MinVol.Volatility).Float64("OptimizedVolatility", gmv.Performance.Volatility).Msg("random portfolio is less volatile than the optimized minimum variance portfolio")
	}

	return report, nil
}
