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
	"io"
	"math"
	"sort"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	"github.com/penny-vault/pv-frontier/data"
	"github.com/penny-vault/pv-frontier/portfolio"
)

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func pct(val float64) string {
	if math.IsNaN(val) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", val*100)
}

func ratio(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "-"
	}
	return fmt.Sprintf("%.3f", val)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func writeMetadata(w io.Writer, meta *data.Metadata) {
	table := newTable(w, []string{"Run", "Rows", "Start", "End", "Missing", "Outliers"})
	table.Append([]string{
		meta.RunID.String(),
		fmt.Sprintf("%d", meta.Rows),
		meta.Start.Format("2006-01-02"),
		meta.End.Format("2006-01-02"),
		fmt.Sprintf("%d", meta.MissingBefore),
		fmt.Sprintf("%d", meta.OutliersCleaned),
	})
	table.Render()
}

func writeMoments(w io.Writer, moments *portfolio.Moments) {
	table := newTable(w, []string{"Asset", "Return", "Volatility"})
	vols := moments.Volatilities()
	for idx, asset := range moments.Assets {
		table.Append([]string{asset, pct(moments.Mu[idx]), pct(vols[idx])})
	}
	table.Render()
}

// namedAllocation is a row of the allocation table
type namedAllocation struct {
	Name       string                `json:"name"`
	Allocation *portfolio.Allocation `json:"allocation"`
}

func writeAllocations(w io.Writer, assets []string, allocs []namedAllocation) {
	header := append([]string{"Portfolio", "Return", "Volatility", "Sharpe", "Status"}, assets...)
	table := newTable(w, header)
	for _, named := range allocs {
		alloc := named.Allocation
		row := []string{
			named.Name,
			pct(alloc.Performance.Return),
			pct(alloc.Performance.Volatility),
			ratio(alloc.Performance.Sharpe),
			alloc.Status.String(),
		}
		for _, weight := range alloc.Weights {
			row = append(row, pct(weight))
		}
		table.Append(row)
	}
	table.Render()
}

func writeFrontier(w io.Writer, assets []string, frontier []portfolio.FrontierPoint) {
	header := append([]string{"Return", "Volatility", "Sharpe"}, assets...)
	table := newTable(w, header)
	for _, point := range frontier {
		row := []string{pct(point.Return), pct(point.Volatility), ratio(point.Sharpe)}
		for _, weight := range point.Weights {
			row = append(row, pct(weight))
		}
		table.Append(row)
	}

	footer := make([]string, len(header))
	footer[0] = "Num Points"
	footer[1] = fmt.Sprintf("%d", len(frontier))
	table.SetFooter(footer)
	table.Render()
}

func writeDraws(w io.Writer, assets []string, draws map[string]*portfolio.Draw) {
	header := append([]string{"Draw", "Return", "Volatility", "Sharpe"}, assets...)
	table := newTable(w, header)

	names := make([]string, 0, len(draws))
	for name := range draws {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		draw := draws[name]
		if draw == nil {
			continue
		}
		row := []string{name, pct(draw.Return), pct(draw.Volatility), ratio(draw.Sharpe)}
		for _, weight := range draw.Weights {
			row = append(row, pct(weight))
		}
		table.Append(row)
	}
	table.Render()
}
