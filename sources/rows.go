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
	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/filter"
)

// Row adapters expose each record type's cells to filter evaluation under
// the source's declared column names.

func numCell(f data.Float) filter.Value {
	if !f.Valid {
		return filter.MissingValue(filter.Number)
	}
	return filter.Num(f.Float64)
}

func dateCell(d data.Date) filter.Value {
	if d.IsZero() {
		return filter.MissingValue(filter.Date)
	}
	return filter.Day(d.Time)
}

type fundamentalRow struct {
	record *data.Fundamental
}

func (row fundamentalRow) Field(name string) (filter.Value, bool) {
	switch name {
	case "gvkey":
		return filter.Str(row.record.FirmID), true
	case "tic":
		return filter.Str(row.record.Ticker), true
	case "datadate":
		return dateCell(row.record.PeriodEnd), true
	case "fyear":
		return filter.Num(float64(row.record.FiscalYear)), true
	case "at":
		return numCell(row.record.Assets), true
	case "sale":
		return numCell(row.record.Sales), true
	case "seq":
		return numCell(row.record.StockholdersEquity), true
	case "ceq":
		return numCell(row.record.CommonEquity), true
	case "pstk":
		return numCell(row.record.PreferredStock), true
	case "lt":
		return numCell(row.record.Liabilities), true
	case "mib":
		return numCell(row.record.MinorityInterest), true
	case "prcc_f":
		return numCell(row.record.PriceClose), true
	case "csho":
		return numCell(row.record.SharesOut), true
	}
	return filter.Value{}, false
}

// applyFundamentalProjection blanks value columns outside the projection.
// Key columns (gvkey, tic, datadate, fyear) always survive; dropping a value
// column makes it missing for every downstream fallback chain.
func applyFundamentalProjection(record *data.Fundamental, projection filter.Projection) {
	blank := func(col string, field *data.Float) {
		if !projection.Keeps(col) {
			*field = data.Missing()
		}
	}

	blank("at", &record.Assets)
	blank("sale", &record.Sales)
	blank("seq", &record.StockholdersEquity)
	blank("ceq", &record.CommonEquity)
	blank("pstk", &record.PreferredStock)
	blank("lt", &record.Liabilities)
	blank("mib", &record.MinorityInterest)
	blank("prcc_f", &record.PriceClose)
	blank("csho", &record.SharesOut)
}

// applyPriceProjection blanks value columns outside the projection. Key
// columns (permno, date) always survive.
func applyPriceProjection(record *data.PriceBar, projection filter.Projection) {
	if !projection.Keeps("prc") {
		record.Price = data.Missing()
	}
	if !projection.Keeps("cfacshr") {
		record.AdjFactor = data.Missing()
	}
}

// applyForecastProjection blanks value columns outside the projection. Key
// columns (ticker, fpedats, estimator, analys, anndats) always survive.
func applyForecastProjection(record *data.Forecast, projection filter.Projection) {
	if !projection.Keeps("value") {
		record.Value = data.Missing()
	}
	if !projection.Keeps("basis") {
		record.Basis = ""
	}
}

// applyActualProjection blanks value columns outside the projection. Key
// columns (ticker, pends, anndats) always survive.
func applyActualProjection(record *data.ActualEarnings, projection filter.Projection) {
	if !projection.Keeps("value") {
		record.Value = data.Missing()
	}
}

type linkRow struct {
	record *data.SecurityLink
}

func (row linkRow) Field(name string) (filter.Value, bool) {
	switch name {
	case "ticker":
		return filter.Str(row.record.Ticker), true
	case "permno":
		return filter.Num(float64(row.record.Permno)), true
	case "score":
		return filter.Num(float64(row.record.Score)), true
	}
	return filter.Value{}, false
}

type priceRow struct {
	record *data.PriceBar
}

func (row priceRow) Field(name string) (filter.Value, bool) {
	switch name {
	case "permno":
		return filter.Num(float64(row.record.Permno)), true
	case "date":
		return dateCell(row.record.Date), true
	case "prc":
		return numCell(row.record.Price), true
	case "cfacshr":
		return numCell(row.record.AdjFactor), true
	}
	return filter.Value{}, false
}

type forecastRow struct {
	record *data.Forecast
}

func (row forecastRow) Field(name string) (filter.Value, bool) {
	switch name {
	case "ticker":
		return filter.Str(row.record.Ticker), true
	case "fpedats":
		return dateCell(row.record.FiscalPeriodEnd), true
	case "estimator":
		return filter.Str(row.record.BrokerID), true
	case "analys":
		return filter.Str(row.record.AnalystID), true
	case "anndats":
		return dateCell(row.record.AnnounceDate), true
	case "value":
		return numCell(row.record.Value), true
	case "basis":
		return filter.Str(row.record.Basis), true
	}
	return filter.Value{}, false
}

type actualRow struct {
	record *data.ActualEarnings
}

func (row actualRow) Field(name string) (filter.Value, bool) {
	switch name {
	case "ticker":
		return filter.Str(row.record.Ticker), true
	case "pends":
		return dateCell(row.record.FiscalPeriodEnd), true
	case "anndats":
		return dateCell(row.record.AnnounceDate), true
	case "value":
		return numCell(row.record.Value), true
	}
	return filter.Value{}, false
}
