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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-frontier/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after merging the config file, PVF_ environment
variables and command line flags. The output is a valid config.toml.`,
	Run: func(cmd *cobra.Command, args []string) {
		if used := viper.ConfigFileUsed(); used != "" {
			log.Info().Str("ConfigFile", used).Msg("read configuration file")
		}

		conf, err := config.FromViper(viper.GetViper())
		if err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}

		if JSONOutput {
			if err := writeJSON(cmd.OutOrStdout(), conf); err != nil {
				log.Fatal().Err(err).Msg("could not encode configuration")
			}
			return
		}

		out, err := conf.TOML()
		if err != nil {
			log.Fatal().Err(err).Msg("could not encode configuration")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	},
}
