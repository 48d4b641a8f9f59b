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
package panel

import (
	"sort"

	"github.com/factorlab/panelkit/data"
)

// NeutralAdj treats a zero or missing share-adjustment factor as the neutral
// factor 1. A zero factor is a data artifact, not a real adjustment, and
// must never cause a division fault.
func NeutralAdj(adj data.Float) data.Float {
	if !adj.Valid || adj.Float64 == 0 {
		return data.F(1)
	}
	return adj
}

// ForecastError is the announcement-scaled forecast error:
// (actual - forecast) / (|price| / adj). Any missing operand propagates to a
// missing result.
func ForecastError(actual, forecast, price, adj data.Float) data.Float {
	scale := price.Abs().Div(NeutralAdj(adj))
	return actual.Sub(forecast).Div(scale)
}

// BookToMarket is book equity over market equity; missing when market equity
// is missing or zero.
func BookToMarket(book, market data.Float) data.Float {
	return book.Div(market)
}

// Median of the observed values; missing values are excluded first, and an
// all-missing input yields a missing median.
func Median(values []data.Float) data.Float {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			observed = append(observed, v.Float64)
		}
	}

	if len(observed) == 0 {
		return data.Missing()
	}

	sort.Float64s(observed)
	mid := len(observed) / 2
	if len(observed)%2 == 1 {
		return data.F(observed[mid])
	}
	return data.F((observed[mid-1] + observed[mid]) / 2)
}
