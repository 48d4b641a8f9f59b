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

// Package linker resolves the ticker-to-permno cross reference. The vendor
// link table is many-to-many with quality scores; resolution filters to an
// accepted score set and then drops any ticker that still maps to more than
// one security. Losing coverage is preferred over silently attaching the
// wrong price history to a firm.
package linker

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/factorlab/panelkit/data"
)

// Diagnostics counts link-table rows that did not survive resolution.
// Neither condition is fatal; both are absorbed as coverage loss.
type Diagnostics struct {
	// Ambiguous counts tickers excluded because they mapped to more than
	// one distinct permno after score filtering.
	Ambiguous int

	// Rejected counts raw links whose score fell outside the accepted set.
	Rejected int
}

// Resolve filters raw links to the accepted scores and returns the surviving
// one-to-one ticker-to-permno mapping. Every link for an ambiguous ticker is
// dropped and logged.
func Resolve(links []data.SecurityLink, acceptScores []int) (map[string]data.SecurityLink, Diagnostics) {
	accept := make(map[int]bool, len(acceptScores))
	for _, score := range acceptScores {
		accept[score] = true
	}

	diags := Diagnostics{}
	candidates := make(map[string][]data.SecurityLink)
	for _, link := range links {
		if !accept[link.Score] {
			diags.Rejected++
			continue
		}
		candidates[link.Ticker] = append(candidates[link.Ticker], link)
	}

	resolved := make(map[string]data.SecurityLink, len(candidates))
	for ticker, tickerLinks := range candidates {
		permnos := make(map[int]bool)
		for _, link := range tickerLinks {
			permnos[link.Permno] = true
		}

		if len(permnos) > 1 {
			diags.Ambiguous++
			log.Warn().Str("Ticker", ticker).Int("NumTargets", len(permnos)).
				Msg("ticker maps to multiple securities, excluding from link table")
			continue
		}

		// Multiple links may remain for a single permno at different
		// scores; keep the best one.
		best := tickerLinks[0]
		for _, link := range tickerLinks[1:] {
			if link.Score < best.Score {
				best = link
			}
		}
		resolved[ticker] = best
	}

	return resolved, diags
}

// Tickers returns the resolved tickers in sorted order, for deterministic
// iteration in reports and tests.
func Tickers(resolved map[string]data.SecurityLink) []string {
	tickers := make([]string, 0, len(resolved))
	for ticker := range resolved {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}
