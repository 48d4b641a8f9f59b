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
package export

import (
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/factorlab/panelkit/data"
)

// panelParquetRow flattens a panel row for the parquet writer. Optional
// fields are pointers so that missing values become parquet nulls rather
// than sentinel numbers.
type panelParquetRow struct {
	FirmID            string   `parquet:"name=firm_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Year              int32    `parquet:"name=year, type=INT32"`
	Ticker            string   `parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Permno            int32    `parquet:"name=permno, type=INT32"`
	Linked            bool     `parquet:"name=linked, type=BOOLEAN"`
	PeriodEnd         string   `parquet:"name=period_end, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Assets            *float64 `parquet:"name=assets, type=DOUBLE"`
	Sales             *float64 `parquet:"name=sales, type=DOUBLE"`
	BookEquity        *float64 `parquet:"name=book_equity, type=DOUBLE"`
	BookEquitySource  string   `parquet:"name=book_equity_source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	MarketEquity      *float64 `parquet:"name=market_equity, type=DOUBLE"`
	BookToMarket      *float64 `parquet:"name=book_to_market, type=DOUBLE"`
	PriceDate         string   `parquet:"name=price_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Price             *float64 `parquet:"name=price, type=DOUBLE"`
	AdjFactor         *float64 `parquet:"name=adj_factor, type=DOUBLE"`
	ConsensusForecast *float64 `parquet:"name=consensus_forecast, type=DOUBLE"`
	NumAnalysts       int32    `parquet:"name=num_analysts, type=INT32"`
	ActualValue       *float64 `parquet:"name=actual_value, type=DOUBLE"`
	ForecastError     *float64 `parquet:"name=forecast_error, type=DOUBLE"`
}

func toParquetRow(row *data.PanelRow) *panelParquetRow {
	out := &panelParquetRow{
		FirmID:            row.FirmID,
		Year:              int32(row.Year),
		Ticker:            row.Ticker,
		Permno:            int32(row.Permno),
		Linked:            row.Linked,
		BookEquitySource:  row.BookEquitySource,
		NumAnalysts:       int32(row.NumAnalysts),
		Assets:            row.Assets.Ptr(),
		Sales:             row.Sales.Ptr(),
		BookEquity:        row.BookEquity.Ptr(),
		MarketEquity:      row.MarketEquity.Ptr(),
		BookToMarket:      row.BookToMarket.Ptr(),
		Price:             row.Price.Ptr(),
		AdjFactor:         row.AdjFactor.Ptr(),
		ConsensusForecast: row.ConsensusForecast.Ptr(),
		ActualValue:       row.ActualValue.Ptr(),
		ForecastError:     row.ForecastError.Ptr(),
	}

	if !row.PeriodEnd.IsZero() {
		out.PeriodEnd = row.PeriodEnd.Format("2006-01-02")
	}
	if !row.PriceDate.IsZero() {
		out.PriceDate = row.PriceDate.Format("2006-01-02")
	}

	return out
}

// SaveParquet writes the panel rows to a parquet file.
func SaveParquet(rows []data.PanelRow, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(panelParquetRow), 4)
	if err != nil {
		log.Error().
			Str("OriginalError", err.Error()).
			Msg("Parquet write failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for i := range rows {
		if err = pw.Write(toParquetRow(&rows[i])); err != nil {
			log.Error().
				Str("OriginalError", err.Error()).
				Str("FirmID", rows[i].FirmID).Int("Year", rows[i].Year).
				Msg("Parquet write failed for record")
		}
	}

	if err = pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("Parquet write failed")
		return err
	}

	log.Info().Int("NumRecords", len(rows)).Msg("Parquet write finished")
	return nil
}
