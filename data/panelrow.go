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
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PanelRow is one (firm, year) cell of the final panel with every merged and
// derived column. Rows are created by the merge stage and are immutable once
// emitted.
type PanelRow struct {
	FirmID string `csv:"firm_id" json:"firm_id"`
	Year   int    `csv:"year" json:"year"`
	Ticker string `csv:"ticker" json:"ticker"`

	// Permno is zero when the firm's ticker could not be linked to a
	// security; Linked distinguishes that case from a genuine permno.
	Permno int  `csv:"permno" json:"permno"`
	Linked bool `csv:"linked" json:"linked"`

	// PeriodEnd is zero for calendar years with no reported fundamentals.
	PeriodEnd Date `csv:"period_end" json:"period_end"`

	Assets Float `csv:"assets" json:"assets"`
	Sales  Float `csv:"sales" json:"sales"`

	// BookEquity is derived by the documented fallback chain: seq, then
	// ceq+pstk, then at-lt-mib. BookEquitySource names the winning step.
	BookEquity       Float  `csv:"book_equity" json:"book_equity"`
	BookEquitySource string `csv:"book_equity_source" json:"book_equity_source"`

	MarketEquity Float `csv:"market_equity" json:"market_equity"`
	BookToMarket Float `csv:"book_to_market" json:"book_to_market"`

	// Nearest matched price observation at or before PeriodEnd.
	PriceDate Date  `csv:"price_date" json:"price_date"`
	Price     Float `csv:"price" json:"price"`
	AdjFactor Float `csv:"adj_factor" json:"adj_factor"`

	// Consensus analyst forecast for the fiscal period ending in Year.
	ConsensusForecast Float `csv:"consensus_forecast" json:"consensus_forecast"`
	NumAnalysts       int   `csv:"num_analysts" json:"num_analysts"`
	ActualValue       Float `csv:"actual_value" json:"actual_value"`
	ForecastError     Float `csv:"forecast_error" json:"forecast_error"`
}

func (row *PanelRow) MarshalZerologObject(e *zerolog.Event) {
	e.Str("FirmID", row.FirmID)
	e.Int("Year", row.Year)
	e.Str("Ticker", row.Ticker)
	e.Int("Permno", row.Permno)
}

// Key returns the composite panel key.
func (row *PanelRow) Key() string {
	return fmt.Sprintf("%s:%d", row.FirmID, row.Year)
}

func (row *PanelRow) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing panel row transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"firm_id",
		"year",
		"ticker",
		"permno",
		"linked",
		"period_end",
		"assets",
		"sales",
		"book_equity",
		"book_equity_source",
		"market_equity",
		"book_to_market",
		"price_date",
		"price",
		"adj_factor",
		"consensus_forecast",
		"num_analysts",
		"actual_value",
		"forecast_error"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19
	) ON CONFLICT ON CONSTRAINT %[1]s_pkey DO UPDATE SET
		ticker = EXCLUDED.ticker,
		permno = EXCLUDED.permno,
		linked = EXCLUDED.linked,
		period_end = EXCLUDED.period_end,
		assets = EXCLUDED.assets,
		sales = EXCLUDED.sales,
		book_equity = EXCLUDED.book_equity,
		book_equity_source = EXCLUDED.book_equity_source,
		market_equity = EXCLUDED.market_equity,
		book_to_market = EXCLUDED.book_to_market,
		price_date = EXCLUDED.price_date,
		price = EXCLUDED.price,
		adj_factor = EXCLUDED.adj_factor,
		consensus_forecast = EXCLUDED.consensus_forecast,
		num_analysts = EXCLUDED.num_analysts,
		actual_value = EXCLUDED.actual_value,
		forecast_error = EXCLUDED.forecast_error`, tbl)

	var periodEnd, priceDate interface{}
	if !row.PeriodEnd.IsZero() {
		periodEnd = row.PeriodEnd.Time
	}
	if !row.PriceDate.IsZero() {
		priceDate = row.PriceDate.Time
	}

	_, err = tx.Exec(ctx, sql,
		row.FirmID,
		row.Year,
		row.Ticker,
		row.Permno,
		row.Linked,
		periodEnd,
		row.Assets.Ptr(),
		row.Sales.Ptr(),
		row.BookEquity.Ptr(),
		row.BookEquitySource,
		row.MarketEquity.Ptr(),
		row.BookToMarket.Ptr(),
		priceDate,
		row.Price.Ptr(),
		row.AdjFactor.Ptr(),
		row.ConsensusForecast.Ptr(),
		row.NumAnalysts,
		row.ActualValue.Ptr(),
		row.ForecastError.Ptr(),
	)

	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Object("PanelRow", row).Msg("save panel row to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return err
}
