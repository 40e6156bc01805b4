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

package data

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/stat"

	"github.com/penny-vault/pv-frontier/dataframe"
)

// DefaultZThreshold is the z-score above which a price is treated as an outlier
const DefaultZThreshold = 3.0

// Metadata describes a cleaning run
type Metadata struct {
	RunID           uuid.UUID      `json:"run_id"`
	Timestamp       time.Time      `json:"timestamp"`
	GoVersion       string         `json:"go_version"`
	Hash            string         `json:"hash"`
	Rows            int            `json:"rows"`
	Start           time.Time      `json:"start"`
	End             time.Time      `json:"end"`
	MissingBefore   int            `json:"missing_values_before"`
	OutliersCleaned int            `json:"outliers_cleaned"`
	Outliers        map[string]int `json:"outliers"`
}

// Select returns only the requested tickers of df. An empty list selects
// every column
func Select(df *dataframe.DataFrame, tickers ...string) (*dataframe.DataFrame, error) {
	if len(tickers) == 0 {
		return df, nil
	}

	for _, ticker := range tickers {
		if df.ColIndex(ticker) == -1 {
			log.Error().Stack().Err(ErrUnknownTicker).Str("Ticker", ticker).Strs("Columns", df.ColNames).Msg("cannot select ticker")
			return nil, ErrUnknownTicker
		}
	}

	selected, _ := df.Split(tickers...)
	return selected, nil
}

// Clean prepares raw prices for analysis:
//
// 1. missing values are forward filled
// 2. prices whose z-score exceeds zThreshold are replaced by the previous
// price in the same column
// 3. rows that still have missing values (before the first observation of
// an asset) are dropped
//
// The benchmark column, if named, is split off from the asset prices after
// cleaning so both frames share the same dates. zThreshold <= 0 uses
// DefaultZThreshold.
func Clean(df *dataframe.DataFrame, benchmark string, zThreshold float64) (assets, bench *dataframe.DataFrame, meta *Metadata, err error) {
	if zThreshold <= 0 {
		zThreshold = DefaultZThreshold
	}

	if benchmark != "" && df.Column(benchmark) == nil {
		log.Error().Stack().Err(ErrUnknownTicker).Str("Benchmark", benchmark).Strs("Columns", df.ColNames).Msg("benchmark not in price file")
		return nil, nil, nil, ErrUnknownTicker
	}

	meta = &Metadata{
		RunID:     uuid.New(),
		Timestamp: time.Now(),
		GoVersion: runtime.Version(),
		Outliers:  make(map[string]int, df.ColCount()),
	}

	for _, cnt := range df.CountNaN() {
		meta.MissingBefore += cnt
	}

	cleaned := df.ForwardFill()
	for colIdx, colName := range cleaned.ColNames {
		cnt := replaceOutliers(cleaned.Vals[colIdx], zThreshold)
		meta.Outliers[colName] = cnt
		meta.OutliersCleaned += cnt
	}
	cleaned = cleaned.Drop(math.NaN())

	if cleaned.Len() < 2 {
		log.Error().Stack().Err(ErrNotEnoughRows).Int("NumRows", cleaned.Len()).Msg("cannot clean prices")
		return nil, nil, nil, ErrNotEnoughRows
	}

	if benchmark != "" {
		bench, assets = cleaned.Split(benchmark)
	} else {
		assets = cleaned
	}

	if assets.ColCount() == 0 {
		log.Error().Stack().Err(ErrUnknownTicker).Msg("price file only contains the benchmark")
		return nil, nil, nil, ErrUnknownTicker
	}

	meta.Rows = assets.Len()
	meta.Start = assets.Start()
	meta.End = assets.End()
	meta.Hash = hashPrices(cleaned)

	log.Info().Object("Metadata", meta).Msg("cleaned prices")

	return assets, bench, meta, nil
}

// replaceOutliers replaces every value with |z| > threshold by the preceding
// value in col and returns the number of replaced values. The mean and sample
// standard deviation ignore missing values
func replaceOutliers(col []float64, threshold float64) int {
	observed := make([]float64, 0, len(col))
	for _, val := range col {
		if !math.IsNaN(val) {
			observed = append(observed, val)
		}
	}

	if len(observed) < 2 {
		return 0
	}

	mean, std := stat.MeanStdDev(observed, nil)
	if !(std > 0) {
		return 0
	}

	outlier := make([]bool, len(col))
	cnt := 0
	for idx, val := range col {
		if math.Abs((val-mean)/std) > threshold {
			outlier[idx] = true
			cnt++
		}
	}

	last := math.NaN()
	for idx, val := range col {
		if outlier[idx] {
			col[idx] = last
			continue
		}
		if !math.IsNaN(val) {
			last = val
		}
	}

	return cnt
}

// hashPrices computes a 16-byte blake3 digest of the dates, column names and
// values of df
func hashPrices(df *dataframe.DataFrame) string {
	h := blake3.New()
	buf := make([]byte, 8)

	for _, dt := range df.Dates {
		binary.LittleEndian.PutUint64(buf, uint64(dt.UTC().Unix()))
		_, _ = h.Write(buf)
	}

	for colIdx, colName := range df.ColNames {
		_, _ = h.Write([]byte(colName))
		for _, val := range df.Vals[colIdx] {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(val))
			_, _ = h.Write(buf)
		}
	}

	return hex.EncodeToString(h.Sum(nil)[:16])
}
