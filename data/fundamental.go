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

// Fundamental is one firm-period row from the annual fundamentals extract.
// Column tags follow the vendor's lowercase mnemonics so that a raw export
// loads without renaming.
type Fundamental struct {
	// [Entity] The firm identifier is the permanent company key assigned by
	// the fundamentals vendor. Unlike tickers it is never recycled when a
	// company delists, so it is the grouping key for all firm-level panels.
	FirmID string `csv:"gvkey" db:"firm_id" json:"firm_id"`

	// [Entity] The ticker under which the firm's primary security trades.
	// Tickers are reused across firms over time; they are only safe for
	// linking when paired with a period.
	Ticker string `csv:"tic" db:"ticker" json:"ticker"`

	// [Entity] The end date of the fiscal reporting period. This may differ
	// from the calendar year end; fiscal years ending in January through May
	// are conventionally assigned to the prior calendar year by the vendor.
	PeriodEnd Date `csv:"datadate" db:"period_end" json:"period_end"`

	// [Entity] The fiscal year the vendor assigns to this reporting period.
	FiscalYear int `csv:"fyear" db:"fiscal_year" json:"fiscal_year"`

	// [Balance Sheet] Total assets as of the balance sheet date.
	Assets Float `csv:"at" db:"assets" json:"assets"`

	// [Income Statement] Net sales for the period.
	Sales Float `csv:"sale" db:"sales" json:"sales"`

	// [Balance Sheet] Total stockholders' equity as reported. Frequently
	// absent in early sample years; see the book-equity fallback chain.
	StockholdersEquity Float `csv:"seq" db:"stockholders_equity" json:"stockholders_equity"`

	// [Balance Sheet] Common equity, a component of [StockholdersEquity]
	// excluding preferred stock.
	CommonEquity Float `csv:"ceq" db:"common_equity" json:"common_equity"`

	// [Balance Sheet] Carrying value of preferred stock.
	PreferredStock Float `csv:"pstk" db:"preferred_stock" json:"preferred_stock"`

	// [Balance Sheet] Total liabilities.
	Liabilities Float `csv:"lt" db:"liabilities" json:"liabilities"`

	// [Balance Sheet] Minority (non-controlling) interest.
	MinorityInterest Float `csv:"mib" db:"minority_interest" json:"minority_interest"`

	// [Entity] Closing price for the fiscal period, split adjusted.
	PriceClose Float `csv:"prcc_f" db:"price_close" json:"price_close"`

	// [Entity] Common shares outstanding at period end, in millions.
	SharesOut Float `csv:"csho" db:"shares_out" json:"shares_out"`

	// Seq is the position of the row in the source extract. It is assigned
	// at load time and serves as the stable final tie-break for keep-last
	// deduplication when announce or period dates collide.
	Seq int `csv:"-" db:"-" json:"-"`
}

func (fundamental *Fundamental) MarshalZerologObject(e *zerolog.Event) {
	e.Str("FirmID", fundamental.FirmID)
	e.Str("Ticker", fundamental.Ticker)
	e.Time("PeriodEnd", fundamental.PeriodEnd.Time)
	e.Int("FiscalYear", fundamental.FiscalYear)
}
