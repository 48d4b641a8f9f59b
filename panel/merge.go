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
	"github.com/factorlab/panelkit/data"
)

// Candidate is one step of a fallback chain: a named expression evaluated
// lazily so that later steps cost nothing when an earlier step wins. Names
// make the evaluation order inspectable in output and tests.
type Candidate struct {
	Name string
	Eval func() data.Float
}

// Coalesce evaluates candidates in order and returns the first non-missing
// value along with the winning candidate's name. When every candidate is
// missing it returns def (which may itself be missing) and an empty name.
// Evaluation order is fixed by the caller's argument order; it must match
// the chain documented for the field, since order changes results whenever
// sources disagree.
func Coalesce(def data.Float, candidates ...Candidate) (data.Float, string) {
	for _, candidate := range candidates {
		if v := candidate.Eval(); v.Valid {
			return v, candidate.Name
		}
	}
	return def, ""
}

// BookEquity derives book equity from a fundamentals row using the
// documented chain: seq; then ceq+pstk; then at-lt-mib.
func BookEquity(fundamental *data.Fundamental) (data.Float, string) {
	return Coalesce(data.Missing(),
		Candidate{Name: "seq", Eval: func() data.Float {
			return fundamental.StockholdersEquity
		}},
		Candidate{Name: "ceq+pstk", Eval: func() data.Float {
			return fundamental.CommonEquity.Add(fundamental.PreferredStock)
		}},
		Candidate{Name: "at-lt-mib", Eval: func() data.Float {
			return fundamental.Assets.Sub(fundamental.Liabilities).Sub(fundamental.MinorityInterest)
		}},
	)
}

// MarketEquity derives market equity: fiscal-period close times shares
// outstanding; else the matched security price times shares outstanding.
func MarketEquity(fundamental *data.Fundamental, matchedPrice data.Float) (data.Float, string) {
	return Coalesce(data.Missing(),
		Candidate{Name: "prcc_f*csho", Eval: func() data.Float {
			return fundamental.PriceClose.Mul(fundamental.SharesOut)
		}},
		Candidate{Name: "prc*csho", Eval: func() data.Float {
			return matchedPrice.Abs().Mul(fundamental.SharesOut)
		}},
	)
}
