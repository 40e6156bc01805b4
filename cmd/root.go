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
	"os"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-frontier/common"
	"github.com/penny-vault/pv-frontier/config"
)

var (
	Profile    bool
	Trace      bool
	JSONOutput bool
)

var (
	profileFile *os.File
	traceFile   *os.File
)

func init() {
	viper.SetEnvPrefix("PVF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Prices
	rootCmd.PersistentFlags().StringP("prices", "p", "", "CSV file of daily prices (may be lz4 compressed)")
	bindFlag("prices.file", "prices")

	rootCmd.PersistentFlags().StringSliceP("tickers", "t", []string{}, "Tickers to analyze (default every column of the price file)")
	bindFlag("prices.tickers", "tickers")

	rootCmd.PersistentFlags().StringP("benchmark", "b", "", "Benchmark ticker; excluded from the optimization")
	bindFlag("prices.benchmark", "benchmark")

	rootCmd.PersistentFlags().String("start", "", "First date (YYYY-MM-DD) of the price history to analyze")
	bindFlag("prices.start", "start")

	rootCmd.PersistentFlags().String("end", "", "Last date (YYYY-MM-DD) of the price history to analyze")
	bindFlag("prices.end", "end")

	rootCmd.PersistentFlags().Float64("z-threshold", 3.0, "Z-score above which a price is treated as an outlier")
	bindFlag("prices.z_threshold", "z-threshold")

	// Analysis
	rootCmd.PersistentFlags().Float64("periods", 252, "Number of observations per year")
	bindFlag("analysis.periods", "periods")

	rootCmd.PersistentFlags().Float64("risk-free", 0, "Annualized risk free rate")
	bindFlag("analysis.risk_free_rate", "risk-free")

	rootCmd.PersistentFlags().Int("workers", 1, "Number of frontier points optimized concurrently")
	bindFlag("analysis.workers", "workers")

	// Logging configuration
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	bindFlag("log.level", "log-level")

	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	bindFlag("log.report_caller", "log-report-caller")

	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	bindFlag("log.output", "log-output")

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Format logs for humans instead of as JSON")
	bindFlag("log.pretty", "log-pretty")

	rootCmd.PersistentFlags().BoolVar(&JSONOutput, "json", false, "Print results as JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")
	rootCmd.PersistentFlags().BoolVar(&Trace, "trace", false, "Trace program execution and save in trace.out")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// bindLocalFlags binds the flags of a single command to viper keys. Commands
// share keys so the binding happens when the command runs, not in init
func bindLocalFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			log.Error().Stack().Err(err).Str("Key", key).Str("Flag", flag).Msg("could not bind flag")
			return err
		}
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:     "pvfrontier",
	Version: common.CurrentVersion.String(),
	Short:   "Mean-variance portfolio analytics",
	Long: `Estimate annualized returns and covariance from a table of daily prices and
explore the efficient frontier: minimum variance and maximum Sharpe ratio
portfolios, target volatility allocations and Monte Carlo samples of random
long-only portfolios.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		common.SetupLogging()
		return startProfiling()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
	},
}

func startProfiling() error {
	if Profile {
		f, err := os.Create("profile.out")
		if err != nil {
			log.Error().Stack().Err(err).Msg("could not create cpu profile")
			return err
		}
		profileFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error().Stack().Err(err).Msg("could not start cpu profile")
			return err
		}
	}

	if Trace {
		f, err := os.Create("trace.out")
		if err != nil {
			log.Error().Stack().Err(err).Msg("failed to create trace output file")
			return err
		}
		traceFile = f
		if err := trace.Start(f); err != nil {
			log.Error().Stack().Err(err).Msg("failed to start trace")
			return err
		}
	}

	return nil
}

func stopProfiling() {
	if profileFile != nil {
		pprof.StopCPUProfile()
		profileFile.Close()
	}

	if traceFile != nil {
		trace.Stop()
		if err := traceFile.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close trace file")
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
