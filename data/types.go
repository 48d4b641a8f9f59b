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
package data

import (
	"github.com/rs/zerolog"
)

// FirmYearSpan is the observed [YearMin, YearMax] range for one firm,
// derived from its fundamentals records. YearMin <= YearMax always holds.
type FirmYearSpan struct {
	FirmID  string `db:"firm_id" json:"firm_id"`
	YearMin int    `db:"year_min" json:"year_min"`
	YearMax int    `db:"year_max" json:"year_max"`
}

// CalendarEntry is one (firm, year) cell of the panel spine. For every firm
// the calendar covers each integer year between YearMin and YearMax with no
// gaps, so years without a reported observation still appear in the panel.
type CalendarEntry struct {
	FirmID  string `db:"firm_id" json:"firm_id"`
	Year    int    `db:"year" json:"year"`
	YearMin int    `db:"year_min" json:"year_min"`
	YearMax int    `db:"year_max" json:"year_max"`
}

// SecurityLink is one row of the vendor cross-reference between the forecast
// system's ticker and the price system's permanent security number. Score
// follows the vendor's convention: 0 is the highest-confidence match.
type SecurityLink struct {
	Ticker string `csv:"ticker" db:"ticker" json:"ticker"`
	Permno int    `csv:"permno" db:"permno" json:"permno"`
	Score  int    `csv:"score" db:"score" json:"score"`
}

// PriceBar is a single (security, date) price observation. AdjFactor is the
// cumulative share-adjustment factor applied when comparing per-share values
// across split events.
type PriceBar struct {
	Permno    int   `csv:"permno" db:"permno" json:"permno"`
	Date      Date  `csv:"date" db:"event_date" json:"date"`
	Price     Float `csv:"prc" db:"price" json:"price"`
	AdjFactor Float `csv:"cfacshr" db:"adj_factor" json:"adj_factor"`
}

// Forecast is one analyst estimate from the detail forecast extract. A
// single analyst revises over time; keep-last deduplication retains only the
// most recent estimate per analyst and fiscal period.
type Forecast struct {
	Ticker          string `csv:"ticker" db:"ticker" json:"ticker"`
	FiscalPeriodEnd Date   `csv:"fpedats" db:"fiscal_period_end" json:"fiscal_period_end"`
	BrokerID        string `csv:"estimator" db:"broker_id" json:"broker_id"`
	AnalystID       string `csv:"analys" db:"analyst_id" json:"analyst_id"`
	AnnounceDate    Date   `csv:"anndats" db:"announce_date" json:"announce_date"`
	Value           Float  `csv:"value" db:"value" json:"value"`

	// Basis records whether the estimate is on a primary ("P") or diluted
	// ("D") per-share basis.
	Basis string `csv:"basis" db:"basis" json:"basis"`

	// Seq is assigned at load time; see Fundamental.Seq.
	Seq int `csv:"-" db:"-" json:"-"`
}

func (forecast *Forecast) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Ticker", forecast.Ticker)
	e.Time("FiscalPeriodEnd", forecast.FiscalPeriodEnd.Time)
	e.Str("BrokerID", forecast.BrokerID)
	e.Str("AnalystID", forecast.AnalystID)
	e.Time("AnnounceDate", forecast.AnnounceDate.Time)
}

// ActualEarnings is the realized earnings figure for one fiscal period.
// Exactly one row per (ticker, fiscal period end) is required downstream.
type ActualEarnings struct {
	Ticker          string `csv:"ticker" db:"ticker" json:"ticker"`
	FiscalPeriodEnd Date   `csv:"pends" db:"fiscal_period_end" json:"fiscal_period_end"`
	AnnounceDate    Date   `csv:"anndats" db:"announce_date" json:"announce_date"`
	Value           Float  `csv:"value" db:"value" json:"value"`
}
