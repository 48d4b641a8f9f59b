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
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/factorlab/panelkit/data"
)

// Database loaders for libraries that keep extracts in Postgres rather than
// flat files. Filter and projection semantics are identical to the CSV path:
// predicates run in-process against declared columns, not as generated SQL,
// so a configuration behaves the same regardless of where the table lives.

type dbFundamental struct {
	FirmID             string     `db:"firm_id"`
	Ticker             string     `db:"ticker"`
	PeriodEnd          *time.Time `db:"period_end"`
	FiscalYear         int        `db:"fiscal_year"`
	Assets             *float64   `db:"assets"`
	Sales              *float64   `db:"sales"`
	StockholdersEquity *float64   `db:"stockholders_equity"`
	CommonEquity       *float64   `db:"common_equity"`
	PreferredStock     *float64   `db:"preferred_stock"`
	Liabilities        *float64   `db:"liabilities"`
	MinorityInterest   *float64   `db:"minority_interest"`
	PriceClose         *float64   `db:"price_close"`
	SharesOut          *float64   `db:"shares_out"`
}

// LoadFundamentalsDB reads the fundamentals table from a data library.
func LoadFundamentalsDB(ctx context.Context, pool *pgxpool.Pool, tbl string, opts Options) ([]*data.Fundamental, error) {
	if err := opts.Validate("fundamentals", FundamentalsSchema); err != nil {
		return nil, err
	}

	var rows []*dbFundamental
	sql := fmt.Sprintf(`SELECT firm_id, ticker, period_end, fiscal_year, assets, sales,
		stockholders_equity, common_equity, preferred_stock, liabilities,
		minority_interest, price_close, shares_out
		FROM %s ORDER BY firm_id, period_end`, tbl)

	if err := pgxscan.Select(ctx, pool, &rows, sql); err != nil {
		log.Error().Err(err).Str("Table", tbl).Msg("could not load fundamentals from database")
		return nil, err
	}

	kept := make([]*data.Fundamental, 0, len(rows))
	for i, row := range rows {
		record := &data.Fundamental{
			FirmID:             row.FirmID,
			Ticker:             row.Ticker,
			FiscalYear:         row.FiscalYear,
			Assets:             data.FromPtr(row.Assets),
			Sales:              data.FromPtr(row.Sales),
			StockholdersEquity: data.FromPtr(row.StockholdersEquity),
			CommonEquity:       data.FromPtr(row.CommonEquity),
			PreferredStock:     data.FromPtr(row.PreferredStock),
			Liabilities:        data.FromPtr(row.Liabilities),
			MinorityInterest:   data.FromPtr(row.MinorityInterest),
			PriceClose:         data.FromPtr(row.PriceClose),
			SharesOut:          data.FromPtr(row.SharesOut),
			Seq:                i,
		}
		if row.PeriodEnd != nil {
			record.PeriodEnd = data.Date{Time: *row.PeriodEnd}
		}

		if opts.Filter != nil && !opts.Filter.Match(fundamentalRow{record}) {
			continue
		}
		applyFundamentalProjection(record, opts.Projection)
		kept = append(kept, record)
	}

	log.Info().Str("Table", tbl).Int("NumRead", len(rows)).Int("NumKept", len(kept)).
		Msg("loaded fundamentals from database")

	return kept, nil
}

type dbPriceBar struct {
	Permno    int        `db:"permno"`
	Date      *time.Time `db:"event_date"`
	Price     *float64   `db:"price"`
	AdjFactor *float64   `db:"adj_factor"`
}

// LoadPricesDB reads the price table from a data library.
func LoadPricesDB(ctx context.Context, pool *pgxpool.Pool, tbl string, opts Options) ([]data.PriceBar, error) {
	if err := opts.Validate("prices", PricesSchema); err != nil {
		return nil, err
	}

	var rows []*dbPriceBar
	sql := fmt.Sprintf(`SELECT permno, event_date, price, adj_factor FROM %s
		ORDER BY permno, event_date`, tbl)

	if err := pgxscan.Select(ctx, pool, &rows, sql); err != nil {
		log.Error().Err(err).Str("Table", tbl).Msg("could not load prices from database")
		return nil, err
	}

	kept := make([]data.PriceBar, 0, len(rows))
	for _, row := range rows {
		record := data.PriceBar{
			Permno:    row.Permno,
			Price:     data.FromPtr(row.Price),
			AdjFactor: data.FromPtr(row.AdjFactor),
		}
		if row.Date != nil {
			record.Date = data.Date{Time: *row.Date}
		}

		if opts.Filter != nil && !opts.Filter.Match(priceRow{&record}) {
			continue
		}
		applyPriceProjection(&record, opts.Projection)
		kept = append(kept, record)
	}

	log.Info().Str("Table", tbl).Int("NumRead", len(rows)).Int("NumKept", len(kept)).
		Msg("loaded prices from database")

	return kept, nil
}
