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
package linker_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/linker"
)

var _ = Describe("Resolve", func() {
	accept := []int{0, 1}

	It("keeps a singleton ticker", func() {
		resolved, diags := linker.Resolve([]data.SecurityLink{
			{Ticker: "A2", Permno: 20001, Score: 1},
		}, accept)

		Expect(resolved).To(HaveKey("A2"))
		Expect(resolved["A2"].Permno).To(Equal(20001))
		Expect(diags.Ambiguous).To(BeZero())
	})

	It("excludes every link for a ticker mapping to multiple securities", func() {
		resolved, diags := linker.Resolve([]data.SecurityLink{
			{Ticker: "A1", Permno: 10001, Score: 0},
			{Ticker: "A1", Permno: 10002, Score: 1},
			{Ticker: "A2", Permno: 20001, Score: 1},
		}, accept)

		Expect(resolved).NotTo(HaveKey("A1"))
		Expect(resolved).To(HaveKey("A2"))
		Expect(diags.Ambiguous).To(Equal(1))
	})

	It("rejects links whose score falls outside the accepted set", func() {
		resolved, diags := linker.Resolve([]data.SecurityLink{
			{Ticker: "B1", Permno: 30001, Score: 4},
		}, accept)

		Expect(resolved).To(BeEmpty())
		Expect(diags.Rejected).To(Equal(1))
	})

	It("is not ambiguous when rejected scores caused the second permno", func() {
		// A ticker whose low-confidence link points elsewhere still
		// resolves through its accepted link.
		resolved, diags := linker.Resolve([]data.SecurityLink{
			{Ticker: "C1", Permno: 40001, Score: 0},
			{Ticker: "C1", Permno: 49999, Score: 5},
		}, accept)

		Expect(resolved["C1"].Permno).To(Equal(40001))
		Expect(diags.Ambiguous).To(BeZero())
		Expect(diags.Rejected).To(Equal(1))
	})

	It("keeps the best score among duplicate links to the same permno", func() {
		resolved, _ := linker.Resolve([]data.SecurityLink{
			{Ticker: "D1", Permno: 50001, Score: 1},
			{Ticker: "D1", Permno: 50001, Score: 0},
		}, accept)

		Expect(resolved["D1"].Score).To(Equal(0))
	})
})

var _ = Describe("Tickers", func() {
	It("returns resolved tickers in sorted order", func() {
		resolved, _ := linker.Resolve([]data.SecurityLink{
			{Ticker: "ZZ", Permno: 1, Score: 0},
			{Ticker: "AA", Permno: 2, Score: 0},
		}, []int{0})

		Expect(linker.Tickers(resolved)).To(Equal([]string{"AA", "ZZ"}))
	})
})
