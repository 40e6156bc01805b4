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
	"github.com/spf13/cobra"

	"github.com/penny-vault/pv-frontier/portfolio"
)

func init() {
	frontierCmd.Flags().Int("points", portfolio.DefaultFrontierPoints, "Number of target returns swept along the efficient frontier")
	rootCmd.AddCommand(frontierCmd)
}

var frontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Print the efficient frontier of the assets in a price file",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindLocalFlags(cmd, map[string]string{
			"analysis.frontier_points": "points",
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		in, err := loadInput(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not prepare price data")
		}

		frontier, err := portfolio.EfficientFrontier(in.moments.Mu, in.moments.Sigma, in.conf.Analysis.FrontierPoints, in.options()...)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build efficient frontier")
		}

		if JSONOutput {
			if err := writeJSON(cmd.OutOrStdout(), frontier); err != nil {
				log.Fatal().Err(err).Msg("could not encode frontier")
			}
			return
		}

		writeFrontier(cmd.OutOrStdout(), in.moments.Assets, frontier)
	},
}
