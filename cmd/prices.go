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
)

func init() {
	rootCmd.AddCommand(pricesCmd)
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Print the cleaned price table",
	Long: `Load the price file, apply the date range, ticker selection, forward fill and
outlier cleaning, and print the prices every analysis command works from.`,
	Run: func(cmd *cobra.Command, args []string) {
		in, err := loadInput(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("could not prepare price data")
		}

		out := cmd.OutOrStdout()
		if JSONOutput {
			if err := writeJSON(out, in.meta); err != nil {
				log.Fatal().Err(err).Msg("could not encode metadata")
			}
			return
		}

		writeMetadata(out, in.meta)
		fmt.Fprintln(out)
		fmt.Fprint(out, in.assets.Table())
		if in.benchmark != nil {
			fmt.Fprintln(out)
			fmt.Fprint(out, in.benchmark.Table())
		}
	},
}
