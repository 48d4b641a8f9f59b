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

// Package panel implements the row-set transformations that build a gapless
// firm-year panel: calendar expansion, deduplication, merge with fallback
// chains, and per-row metric derivation.
package panel

import (
	"sort"
	"time"

	"github.com/factorlab/panelkit/data"
)

// Observation is a (firm, date) pair used to derive each firm's year span.
type Observation struct {
	FirmID string
	Date   time.Time
}

// Spans groups observations by firm and computes the [YearMin, YearMax]
// range of observed years. Output is sorted by firm id.
func Spans(observations []Observation) []data.FirmYearSpan {
	byFirm := make(map[string]*data.FirmYearSpan)
	for _, obs := range observations {
		year := obs.Date.Year()
		span, ok := byFirm[obs.FirmID]
		if !ok {
			byFirm[obs.FirmID] = &data.FirmYearSpan{FirmID: obs.FirmID, YearMin: year, YearMax: year}
			continue
		}
		if year < span.YearMin {
			span.YearMin = year
		}
		if year > span.YearMax {
			span.YearMax = year
		}
	}

	spans := make([]data.FirmYearSpan, 0, len(byFirm))
	for _, span := range byFirm {
		spans = append(spans, *span)
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].FirmID < spans[j].FirmID
	})

	return spans
}

// Calendar expands every span into one entry per integer year in
// [YearMin, YearMax] inclusive. The result is the spine all per-year data is
// left-joined onto: a firm with a single observation yields a single-year
// calendar, and no firm has a gap between its first and last year.
func Calendar(spans []data.FirmYearSpan) []data.CalendarEntry {
	entries := make([]data.CalendarEntry, 0, len(spans))
	for _, span := range spans {
		for year := span.YearMin; year <= span.YearMax; year++ {
			entries = append(entries, data.CalendarEntry{
				FirmID:  span.FirmID,
				Year:    year,
				YearMin: span.YearMin,
				YearMax: span.YearMax,
			})
		}
	}
	return entries
}
