// Copyright 2024
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

// Package pipeline runs the panel build end to end: deduplicate the source
// tables, derive the firm-year calendar spine, resolve security links,
// compute consensus forecasts, and left-join everything onto the spine with
// nearest-date price matching and derived ratios.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/linker"
	"github.com/factorlab/panelkit/match"
	"github.com/factorlab/panelkit/panel"
)

// Config holds the run parameters. Zero sample bounds leave that side of the
// window open.
type Config struct {
	SampleStart int
	SampleEnd   int

	// AcceptScores are the link-table confidence scores treated as usable.
	AcceptScores []int

	// Lookback bounds the nearest-date price search ending at each fiscal
	// period end.
	Lookback match.Window

	// Workers caps the number of firms processed concurrently.
	Workers int
}

// ConfigFromViper builds a Config from the loaded configuration file and
// flags.
func ConfigFromViper() Config {
	return Config{
		SampleStart:  viper.GetInt("sample.start_year"),
		SampleEnd:    viper.GetInt("sample.end_year"),
		AcceptScores: viper.GetIntSlice("linker.accept_scores"),
		Lookback: match.Window{
			Length: viper.GetInt("match.lookback_length"),
			Unit:   match.Unit(viper.GetString("match.lookback_unit")),
		},
		Workers: viper.GetInt("pipeline.workers"),
	}
}

// Inputs are the five source tables, already loaded and filtered.
type Inputs struct {
	Fundamentals []data.Fundamental
	Links        []data.SecurityLink
	Prices       []data.PriceBar
	Forecasts    []data.Forecast
	Actuals      []data.ActualEarnings
}

// Result is one completed run: the panel rows in (firm, year) order and the
// run summary with its diagnostic counters.
type Result struct {
	Rows    []data.PanelRow
	Summary data.RunSummary
}

type consensus struct {
	value       data.Float
	numAnalysts int
}

// Run executes the full panel build. Schema and uniqueness violations are
// fatal; row-level conditions (unlinked tickers, absent price matches,
// missing operands) are absorbed into missing values and counted in the
// summary.
func Run(ctx context.Context, cfg Config, inputs Inputs) (*Result, error) {
	summary := data.RunSummary{
		RunID:     uuid.New(),
		StartTime: time.Now(),
		Status:    data.RunFailed,
	}

	// Panel cells are keyed by the calendar year of the period end, the same
	// year the spine expands over. The vendor fiscal-year label lags the
	// period end for fiscal years ending January through May, so keying on it
	// would detach those records from their spine rows.
	fundamentals := sampleWindow(inputs.Fundamentals, cfg.SampleStart, cfg.SampleEnd)
	fundamentals = panel.KeepLast(fundamentals,
		func(f data.Fundamental) string { return fundamentalKey(f.FirmID, f.PeriodEnd.Year()) },
		func(a, b data.Fundamental) bool {
			if !a.PeriodEnd.Equal(b.PeriodEnd.Time) {
				return a.PeriodEnd.Before(b.PeriodEnd.Time)
			}
			return a.Seq < b.Seq
		})
	if err := panel.RequireUnique("fundamentals", fundamentals,
		func(f data.Fundamental) string { return fundamentalKey(f.FirmID, f.PeriodEnd.Year()) }); err != nil {
		return nil, err
	}

	observations := make([]panel.Observation, 0, len(fundamentals))
	for _, f := range fundamentals {
		observations = append(observations, panel.Observation{FirmID: f.FirmID, Date: f.PeriodEnd.Time})
	}
	spans := panel.Spans(observations)
	calendar := panel.Calendar(spans)

	resolved, linkDiags := linker.Resolve(inputs.Links, cfg.AcceptScores)
	summary.AmbiguousLinks = linkDiags.Ambiguous
	summary.RejectedLinks = linkDiags.Rejected

	consensusByPeriod := consensusForecasts(inputs.Forecasts)

	if err := panel.RequireUnique("actuals", inputs.Actuals,
		func(a data.ActualEarnings) string { return periodKey(a.Ticker, a.FiscalPeriodEnd) }); err != nil {
		return nil, err
	}
	actuals := make(map[string]data.ActualEarnings, len(inputs.Actuals))
	for _, a := range inputs.Actuals {
		actuals[periodKey(a.Ticker, a.FiscalPeriodEnd)] = a
	}

	prices := priceSeries(inputs.Prices)

	fundByCell := make(map[string]data.Fundamental, len(fundamentals))
	firmTicker := make(map[string]string)
	for _, f := range fundamentals {
		fundByCell[fundamentalKey(f.FirmID, f.PeriodEnd.Year())] = f
		// The last fiscal year wins, giving gap years the firm's most
		// recent ticker.
		firmTicker[f.FirmID] = f.Ticker
	}

	rows, err := panel.ByGroup(ctx, calendar, cfg.Workers,
		func(entry data.CalendarEntry) string { return entry.FirmID },
		func(firmID string, entries []data.CalendarEntry) []data.PanelRow {
			out := make([]data.PanelRow, 0, len(entries))
			for _, entry := range entries {
				out = append(out, buildRow(cfg, entry, fundByCell, firmTicker, resolved, prices, consensusByPeriod, actuals))
			}
			return out
		})
	if err != nil {
		return nil, err
	}

	for i := range rows {
		row := &rows[i]
		if row.Linked && !row.PeriodEnd.IsZero() && row.PriceDate.IsZero() {
			summary.NoPriceMatch++
		}
		if !row.PeriodEnd.IsZero() && (!row.BookToMarket.Valid || !row.ForecastError.Valid) {
			summary.MissingOperands++
		}
	}

	summary.EndTime = time.Now()
	summary.Status = data.RunSuccess
	summary.NumFirms = len(spans)
	summary.NumRows = len(rows)

	log.Info().Int("NumFirms", summary.NumFirms).Int("NumRows", summary.NumRows).
		Int("AmbiguousLinks", summary.AmbiguousLinks).Int("NoPriceMatch", summary.NoPriceMatch).
		Msg("panel build complete")

	return &Result{Rows: rows, Summary: summary}, nil
}

// buildRow assembles one (firm, year) panel cell. Every absence downstream
// of the spine is expressed as a missing value, never an error.
func buildRow(cfg Config, entry data.CalendarEntry,
	fundByCell map[string]data.Fundamental, firmTicker map[string]string,
	resolved map[string]data.SecurityLink, prices map[int][]data.PriceBar,
	consensusByPeriod map[string]consensus, actuals map[string]data.ActualEarnings) data.PanelRow {

	row := data.PanelRow{
		FirmID: entry.FirmID,
		Year:   entry.Year,
		Ticker: firmTicker[entry.FirmID],
	}

	fundamental, hasFund := fundByCell[fundamentalKey(entry.FirmID, entry.Year)]
	if hasFund {
		row.Ticker = fundamental.Ticker
		row.PeriodEnd = fundamental.PeriodEnd
		row.Assets = fundamental.Assets
		row.Sales = fundamental.Sales
		row.BookEquity, row.BookEquitySource = panel.BookEquity(&fundamental)
	}

	if link, ok := resolved[row.Ticker]; ok && row.Ticker != "" {
		row.Permno = link.Permno
		row.Linked = true
	}

	if row.Linked && hasFund {
		if bar, ok := match.Nearest(prices[row.Permno], fundamental.PeriodEnd.Time, cfg.Lookback); ok {
			row.PriceDate = bar.Date
			row.Price = bar.Price
			row.AdjFactor = bar.AdjFactor
		}
	}

	if hasFund {
		row.MarketEquity, _ = panel.MarketEquity(&fundamental, row.Price)
		row.BookToMarket = panel.BookToMarket(row.BookEquity, row.MarketEquity)

		key := periodKey(row.Ticker, fundamental.PeriodEnd)
		if c, ok := consensusByPeriod[key]; ok {
			row.ConsensusForecast = c.value
			row.NumAnalysts = c.numAnalysts
		}
		if actual, ok := actuals[key]; ok {
			row.ActualValue = actual.Value
		}
		row.ForecastError = panel.ForecastError(row.ActualValue, row.ConsensusForecast,
			row.Price, row.AdjFactor)
	}

	return row
}

// consensusForecasts deduplicates the detail forecasts to each analyst's
// latest estimate and reduces per period to the cross-analyst median.
func consensusForecasts(forecasts []data.Forecast) map[string]consensus {
	latest := panel.KeepLast(forecasts,
		func(f data.Forecast) string {
			return fmt.Sprintf("%s|%s|%s|%s", f.Ticker, f.FiscalPeriodEnd.Format("2006-01-02"), f.BrokerID, f.AnalystID)
		},
		func(a, b data.Forecast) bool {
			if !a.AnnounceDate.Equal(b.AnnounceDate.Time) {
				return a.AnnounceDate.Before(b.AnnounceDate.Time)
			}
			return a.Seq < b.Seq
		})

	byPeriod := make(map[string][]data.Float)
	for _, f := range latest {
		key := periodKey(f.Ticker, f.FiscalPeriodEnd)
		byPeriod[key] = append(byPeriod[key], f.Value)
	}

	out := make(map[string]consensus, len(byPeriod))
	for key, values := range byPeriod {
		numValid := 0
		for _, v := range values {
			if v.Valid {
				numValid++
			}
		}
		out[key] = consensus{value: panel.Median(values), numAnalysts: numValid}
	}
	return out
}

// priceSeries groups prices by security and sorts each series by date so
// nearest-date matching scans a stable order.
func priceSeries(bars []data.PriceBar) map[int][]data.PriceBar {
	series := make(map[int][]data.PriceBar)
	for _, bar := range bars {
		series[bar.Permno] = append(series[bar.Permno], bar)
	}
	for permno := range series {
		s := series[permno]
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Date.Before(s[j].Date.Time)
		})
	}
	return series
}

// sampleWindow bounds the sample by the calendar year of each record's
// period end, consistent with the spine and cell keys.
func sampleWindow(fundamentals []data.Fundamental, start, end int) []data.Fundamental {
	if start == 0 && end == 0 {
		return fundamentals
	}
	kept := make([]data.Fundamental, 0, len(fundamentals))
	for _, f := range fundamentals {
		year := f.PeriodEnd.Year()
		if start != 0 && year < start {
			continue
		}
		if end != 0 && year > end {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func fundamentalKey(firmID string, year int) string {
	return fmt.Sprintf("%s:%04d", firmID, year)
}

func periodKey(ticker string, periodEnd data.Date) string {
	return fmt.Sprintf("%s|%s", ticker, periodEnd.Format("2006-01-02"))
}
