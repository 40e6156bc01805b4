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

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-frontier/common"
	"github.com/penny-vault/pv-frontier/data"
	"github.com/penny-vault/pv-frontier/portfolio"
	"github.com/penny-vault/pv-frontier/solver"
)

var (
	ErrMissingPricesFile = errors.New("prices.file must be set")
	ErrInvalidPeriods    = errors.New("analysis.periods must be positive")
	ErrInvalidWorkers    = errors.New("analysis.workers must be positive")
	ErrInvalidSolver     = errors.New("solver iteration limits and tolerances must be positive")
	ErrInvalidDateRange  = errors.New("prices.start and prices.end must be YYYY-MM-DD dates with start before end")
)

const dateLayout = "2006-01-02"

// Config holds every setting of an analysis run. It is read once from viper
// and passed explicitly to the commands
type Config struct {
	Prices   Prices   `toml:"prices"`
	Analysis Analysis `toml:"analysis"`
	Solver   Solver   `toml:"solver"`
	Log      Log      `toml:"log"`
}

// Prices selects and cleans the input price table
type Prices struct {
	File       string   `toml:"file"`
	Tickers    []string `toml:"tickers"`
	Benchmark  string   `toml:"benchmark"`
	ZThreshold float64  `toml:"z_threshold"`
	Start      string   `toml:"start,omitempty"`
	End        string   `toml:"end,omitempty"`
}

// DateRange returns the inclusive range of price rows to analyze. A missing
// bound is the zero time for start and the far future for end
func (p Prices) DateRange() (start, end time.Time, err error) {
	end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if p.Start != "" {
		if start, err = time.Parse(dateLayout, p.Start); err != nil {
			return start, end, ErrInvalidDateRange
		}
	}
	if p.End != "" {
		if end, err = time.Parse(dateLayout, p.End); err != nil {
			return start, end, ErrInvalidDateRange
		}
	}
	if end.Before(start) {
		return start, end, ErrInvalidDateRange
	}
	return start, end, nil
}

// Trimmed reports whether a date range was configured
func (p Prices) Trimmed() bool {
	return p.Start != "" || p.End != ""
}

// Analysis parameterizes the estimator, optimizers and sampler
type Analysis struct {
	Periods          float64 `toml:"periods"`
	RiskFreeRate     float64 `toml:"risk_free_rate"`
	FrontierPoints   int     `toml:"frontier_points"`
	Simulations      int     `toml:"simulations"`
	Seed             uint64  `toml:"seed"`
	Workers          int     `toml:"workers"`
	TargetVolatility float64 `toml:"target_volatility"`
}

// Solver bounds the work of the constrained optimizer
type Solver struct {
	MaxIterations       int     `toml:"max_iterations"`
	MaxMajorIterations  int     `toml:"max_major_iterations"`
	StepTolerance       float64 `toml:"step_tolerance"`
	ConstraintTolerance float64 `toml:"constraint_tolerance"`
}

// Settings converts the configuration into solver settings
func (s Solver) Settings() *solver.Settings {
	return &solver.Settings{
		MaxIterations:       s.MaxIterations,
		MaxMajorIterations:  s.MaxMajorIterations,
		StepTolerance:       s.StepTolerance,
		ConstraintTolerance: s.ConstraintTolerance,
	}
}

type Log struct {
	Level        string `toml:"level"`
	Output       string `toml:"output"`
	Pretty       bool   `toml:"pretty"`
	ReportCaller bool   `toml:"report_caller"`
}

// SetDefaults registers the default value of every key with v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("prices.z_threshold", data.DefaultZThreshold)
	v.SetDefault("analysis.periods", portfolio.DefaultPeriods)
	v.SetDefault("analysis.risk_free_rate", 0.0)
	v.SetDefault("analysis.frontier_points", portfolio.DefaultFrontierPoints)
	v.SetDefault("analysis.simulations", portfolio.DefaultSimulations)
	v.SetDefault("analysis.seed", 42)
	v.SetDefault("analysis.workers", 1)

	settings := solver.DefaultSettings()
	v.SetDefault("solver.max_iterations", settings.MaxIterations)
	v.SetDefault("solver.max_major_iterations", settings.MaxMajorIterations)
	v.SetDefault("solver.step_tolerance", settings.StepTolerance)
	v.SetDefault("solver.constraint_tolerance", settings.ConstraintTolerance)

	v.SetDefault("log.level", "warning")
	v.SetDefault("log.output", "stderr")
}

// FromViper reads and validates the configuration
func FromViper(v *viper.Viper) (*Config, error) {
	conf := &Config{
		Prices: Prices{
			File:       v.GetString("prices.file"),
			Tickers:    v.GetStringSlice("prices.tickers"),
			Benchmark:  strings.ToUpper(strings.TrimSpace(v.GetString("prices.benchmark"))),
			ZThreshold: v.GetFloat64("prices.z_threshold"),
			Start:      strings.TrimSpace(v.GetString("prices.start")),
			End:        strings.TrimSpace(v.GetString("prices.end")),
		},
		Analysis: Analysis{
			Periods:          v.GetFloat64("analysis.periods"),
			RiskFreeRate:     v.GetFloat64("analysis.risk_free_rate"),
			FrontierPoints:   v.GetInt("analysis.frontier_points"),
			Simulations:      v.GetInt("analysis.simulations"),
			Seed:             v.GetUint64("analysis.seed"),
			Workers:          v.GetInt("analysis.workers"),
			TargetVolatility: v.GetFloat64("analysis.target_volatility"),
		},
		Solver: Solver{
			MaxIterations:       v.GetInt("solver.max_iterations"),
			MaxMajorIterations:  v.GetInt("solver.max_major_iterations"),
			StepTolerance:       v.GetFloat64("solver.step_tolerance"),
			ConstraintTolerance: v.GetFloat64("solver.constraint_tolerance"),
		},
		Log: Log{
			Level:        v.GetString("log.level"),
			Output:       v.GetString("log.output"),
			Pretty:       v.GetBool("log.pretty"),
			ReportCaller: v.GetBool("log.report_caller"),
		},
	}

	// a comma separated environment variable arrives as a single element
	tickers := make([]string, 0, len(conf.Prices.Tickers))
	for _, ticker := range conf.Prices.Tickers {
		parts := strings.Split(ticker, ",")
		common.ArrToUpper(parts)
		for _, part := range parts {
			if part != "" {
				tickers = append(tickers, part)
			}
		}
	}
	conf.Prices.Tickers = tickers

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	log.Debug().Object("Config", conf).Msg("loaded configuration")
	return conf, nil
}

// Validate checks the settings that have no usable fallback
func (c *Config) Validate() error {
	if c.Prices.File == "" {
		log.Error().Stack().Err(ErrMissingPricesFile).Msg("invalid configuration")
		return ErrMissingPricesFile
	}

	if _, _, err := c.Prices.DateRange(); err != nil {
		log.Error().Stack().Err(err).Str("Start", c.Prices.Start).Str("End", c.Prices.End).Msg("invalid configuration")
		return err
	}

	if !(c.Analysis.Periods > 0) {
		log.Error().Stack().Err(ErrInvalidPeriods).Float64("Periods", c.Analysis.Periods).Msg("invalid configuration")
		return ErrInvalidPeriods
	}

	if c.Analysis.Workers < 1 {
		log.Error().Stack().Err(ErrInvalidWorkers).Int("Workers", c.Analysis.Workers).Msg("invalid configuration")
		return ErrInvalidWorkers
	}

	if c.Solver.MaxIterations < 1 || c.Solver.MaxMajorIterations < 1 || !(c.Solver.StepTolerance > 0) || !(c.Solver.ConstraintTolerance > 0) {
		log.Error().Stack().Err(ErrInvalidSolver).Int("MaxIterations", c.Solver.MaxIterations).
			Int("MaxMajorIterations", c.Solver.MaxMajorIterations).Msg("invalid configuration")
		return ErrInvalidSolver
	}

	return nil
}

// TOML renders the configuration in the format read by viper
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("PricesFile", c.Prices.File).
		Strs("Tickers", c.Prices.Tickers).
		Str("Benchmark", c.Prices.Benchmark).
		Float64("ZThreshold", c.Prices.ZThreshold).
		Str("Start", c.Prices.Start).
		Str("End", c.Prices.End).
		Float64("Periods", c.Analysis.Periods).
		Float64("RiskFreeRate", c.Analysis.RiskFreeRate).
		Int("FrontierPoints", c.Analysis.FrontierPoints).
		Int("Simulations", c.Analysis.Simulations).
		Uint64("Seed", c.Analysis.Seed).
		Int("Workers", c.Analysis.Workers).
		Int("MaxIterations", c.Solver.MaxIterations).
		Int("MaxMajorIterations", c.Solver.MaxMajorIterations)
}
