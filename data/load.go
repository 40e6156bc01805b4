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
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	rdf "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/pv-frontier/common"
	"github.com/penny-vault/pv-frontier/dataframe"
)

// dateLayouts are the accepted formats of the date column
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Load reads a CSV price file. Files ending in .lz4 are decompressed first.
// See Parse for the expected layout.
func Load(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error().Stack().Err(err).Str("Path", path).Msg("could not read price file")
		return nil, err
	}

	if common.IsLZ4(path) {
		raw, err = common.Decompress(raw)
		if err != nil {
			log.Error().Stack().Err(err).Str("Path", path).Msg("could not decompress price file")
			return nil, err
		}
	}

	df, err := Parse(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	log.Info().Str("Path", path).Int("NumRows", df.Len()).Strs("Columns", df.ColNames).Msg("loaded prices")
	return df, nil
}

// Parse reads a CSV price table. The column named date (any case), or the
// first column if there is none, holds the observation date as YYYY-MM-DD or
// RFC3339. Every other column holds the prices of one asset; empty cells are
// missing values and become NaN. Rows are sorted by date.
func Parse(ctx context.Context, r io.ReadSeeker) (*dataframe.DataFrame, error) {
	empty := ""
	raw, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		NilValue:         &empty,
	})
	if errors.Is(err, rdf.ErrNoRows) {
		log.Error().Stack().Err(ErrNoDateColumn).Msg("csv is empty")
		return nil, ErrNoDateColumn
	}

	if err != nil {
		log.Error().Stack().Err(err).Msg("could not parse csv")
		return nil, err
	}

	if len(raw.Series) == 0 {
		log.Error().Stack().Err(ErrNoDateColumn).Msg("csv is empty")
		return nil, ErrNoDateColumn
	}

	dateIdx := 0
	for idx, name := range raw.Names() {
		if strings.EqualFold(strings.TrimSpace(name), "date") {
			dateIdx = idx
			break
		}
	}

	if len(raw.Series) < 2 {
		log.Error().Stack().Err(ErrNoDateColumn).Strs("Columns", raw.Names()).Msg("csv needs a date column and at least one price column")
		return nil, ErrNoDateColumn
	}

	nrows := raw.NRows()
	dates := make([]time.Time, nrows)
	for row := 0; row < nrows; row++ {
		dates[row], err = parseDate(raw.Series[dateIdx].Value(row))
		if err != nil {
			log.Error().Stack().Err(err).Int("Row", row+1).Interface("Value", raw.Series[dateIdx].Value(row)).Msg("invalid date")
			return nil, err
		}
	}

	colNames := make([]string, 0, len(raw.Series)-1)
	vals := make([][]float64, 0, len(raw.Series)-1)
	for colIdx, series := range raw.Series {
		if colIdx == dateIdx {
			continue
		}

		col, err := parseColumn(series, nrows)
		if err != nil {
			return nil, err
		}
		colNames = append(colNames, strings.TrimSpace(series.Name()))
		vals = append(vals, col)
	}

	sortByDate(dates, vals)
	return dataframe.New(dates, colNames, vals)
}

func parseDate(val interface{}) (time.Time, error) {
	str, ok := val.(string)
	if !ok {
		return time.Time{}, ErrInvalidDate
	}

	str = strings.TrimSpace(str)
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, str); err == nil {
			return dt, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

func parseColumn(series rdf.Series, nrows int) ([]float64, error) {
	col := make([]float64, nrows)
	for row := 0; row < nrows; row++ {
		val := series.Value(row)
		if val == nil {
			col[row] = math.NaN()
			continue
		}

		str, _ := val.(string)
		price, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			log.Error().Stack().Err(ErrInvalidPrice).Str("Column", series.Name()).Int("Row", row+1).Str("Value", str).Msg("invalid price")
			return nil, ErrInvalidPrice
		}
		col[row] = price
	}
	return col, nil
}

// sortByDate reorders dates ascending and applies the same permutation to
// every column of vals
func sortByDate(dates []time.Time, vals [][]float64) {
	if sort.SliceIsSorted(dates, func(i, j int) bool { return dates[i].Before(dates[j]) }) {
		return
	}

	order := make([]int, len(dates))
	for idx := range order {
		order[idx] = idx
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dates[order[i]].Before(dates[order[j]])
	})

	sortedDates := make([]time.Time, len(dates))
	for idx, from := range order {
		sortedDates[idx] = dates[from]
	}
	copy(dates, sortedDates)

	for colIdx, col := range vals {
		sorted := make([]float64, len(col))
		for idx, from := range order {
			sorted[idx] = col[from]
		}
		vals[colIdx] = sorted
	}
}
