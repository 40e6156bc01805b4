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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/pv-frontier/portfolio"
)

var simulateLimit int

func init() {
	simulateCmd.Flags().Int("simulations", portfolio.DefaultSimulations, "Number of random portfolios to draw")
	simulateCmd.Flags().Uint64("seed", 42, "Seed of the random portfolio generator")
	simulateCmd.Flags().IntVar(&simulateLimit, "limit", 20, "Number of draws to print; 0 prints every draw")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Score randomly weighted long-only portfolios",
	Long: `Draw portfolios uniformly from the set of fully invested long-only weights and
report the return, volatility and Sharpe ratio of each. The same seed always
produces the same sample.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindLocalFlags(cmd, map[string]string{
			"analysis.simulations": "simulations",
			"analysis.seed":        "seed",
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		in, err := loadInput(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not prepare price data")
		}

		analysis := in.conf.Analysis
		sample, err := portfolio.SimulateRandomPortfolios(in.moments.Mu, in.moments.Sigma, analysis.Simulations, analysis.RiskFreeRate, analysis.Seed)
		if err != nil {
			log.Fatal().Err(err).Msg("could not simulate portfolios")
		}

		out := cmd.OutOrStdout()
		if JSONOutput {
			if err := writeJSON(out, sample); err != nil {
				log.Fatal().Err(err).Msg("could not encode sample")
			}
			return
		}

		fmt.Fprint(out, sample.Table(in.moments.Assets, simulateLimit))

		best := sample.MaxSharpe()
		least := sample.MinVolatility()
		if best != nil {
			log.Info().Object("Draw", best).Msg("highest sharpe ratio")
		}
		fmt.Fprintln(out)
		writeDraws(out, in.moments.Assets, map[string]*portfolio.Draw{
			"Max Sharpe":     best,
			"Min Volatility": least,
		})
	},
}
