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

// Package match finds the price observation closest to a target date within
// a strictly causal lookback window: candidates at or before the target
// only, never future dates.
package match

import (
	"time"

	"github.com/factorlab/panelkit/data"
)

// Unit is the calendar unit of a lookback window.
type Unit string

const (
	Days   Unit = "days"
	Weeks  Unit = "weeks"
	Months Unit = "months"
)

// Window is a bounded lookback interval ending at the target date.
type Window struct {
	Length int
	Unit   Unit
}

// Start returns the earliest date inside the window for a target date.
func (w Window) Start(target time.Time) time.Time {
	switch w.Unit {
	case Weeks:
		return target.AddDate(0, 0, -7*w.Length)
	case Months:
		return target.AddDate(0, -w.Length, 0)
	default:
		return target.AddDate(0, 0, -w.Length)
	}
}

// Nearest selects the bar in series whose date is closest to target, among
// bars dated in [target-window, target]. When two bars tie on distance
// (duplicate dates in the source), the tie breaks deterministically to the
// lowest price, then the lowest adjustment factor. The bool result is false
// when no candidate falls inside the window; that is an absent match, not an
// error, and downstream fields become missing.
func Nearest(series []data.PriceBar, target time.Time, window Window) (data.PriceBar, bool) {
	start := window.Start(target)

	var best data.PriceBar
	bestDist := time.Duration(-1)

	for _, bar := range series {
		if bar.Date.Before(start) || bar.Date.After(target) {
			continue
		}

		dist := target.Sub(bar.Date.Time)
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist = bar, dist
		case dist == bestDist && tieBreakLess(bar, best):
			best = bar
		}
	}

	return best, bestDist >= 0
}

func tieBreakLess(a, b data.PriceBar) bool {
	av, bv := tieValue(a.Price), tieValue(b.Price)
	if av != bv {
		return av < bv
	}
	return tieValue(a.AdjFactor) < tieValue(b.AdjFactor)
}

// tieValue orders missing values after any observed value.
func tieValue(f data.Float) float64 {
	if !f.Valid {
		return float64(1 << 62)
	}
	return f.Float64
}
