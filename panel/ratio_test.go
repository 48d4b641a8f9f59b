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
package panel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/panel"
)

var _ = Describe("NeutralAdj", func() {
	It("treats zero as the neutral factor", func() {
		Expect(panel.NeutralAdj(data.F(0)).Float64).To(Equal(1.0))
	})

	It("treats missing as the neutral factor", func() {
		Expect(panel.NeutralAdj(data.Missing()).Float64).To(Equal(1.0))
	})

	It("passes observed factors through", func() {
		Expect(panel.NeutralAdj(data.F(2)).Float64).To(Equal(2.0))
	})
})

var _ = Describe("ForecastError", func() {
	It("scales the error by price over the adjustment factor", func() {
		// (2.50 - 2.00) / (|100| / 2) = 0.01
		got := panel.ForecastError(data.F(2.5), data.F(2), data.F(100), data.F(2))
		Expect(got.Valid).To(BeTrue())
		Expect(got.Float64).To(BeNumerically("~", 0.01, 1e-12))
	})

	It("uses the price magnitude", func() {
		got := panel.ForecastError(data.F(2.5), data.F(2), data.F(-100), data.F(1))
		Expect(got.Float64).To(BeNumerically("~", 0.005, 1e-12))
	})

	It("survives a zero adjustment factor", func() {
		got := panel.ForecastError(data.F(2.5), data.F(2), data.F(100), data.F(0))
		Expect(got.Valid).To(BeTrue())
		Expect(got.Float64).To(BeNumerically("~", 0.005, 1e-12))
	})

	It("is missing when the price is missing", func() {
		got := panel.ForecastError(data.F(2.5), data.F(2), data.Missing(), data.F(1))
		Expect(got.Valid).To(BeFalse())
	})

	It("is missing when the price is zero", func() {
		got := panel.ForecastError(data.F(2.5), data.F(2), data.F(0), data.F(1))
		Expect(got.Valid).To(BeFalse())
	})

	It("is missing when the forecast is missing", func() {
		got := panel.ForecastError(data.F(2.5), data.Missing(), data.F(100), data.F(1))
		Expect(got.Valid).To(BeFalse())
	})
})

var _ = Describe("BookToMarket", func() {
	It("divides book by market equity", func() {
		Expect(panel.BookToMarket(data.F(50), data.F(100)).Float64).To(Equal(0.5))
	})

	It("is missing when market equity is zero", func() {
		Expect(panel.BookToMarket(data.F(50), data.F(0)).Valid).To(BeFalse())
	})
})

var _ = Describe("Median", func() {
	It("takes the middle of an odd count", func() {
		got := panel.Median([]data.Float{data.F(3), data.F(1), data.F(2)})
		Expect(got.Float64).To(Equal(2.0))
	})

	It("averages the middle pair of an even count", func() {
		got := panel.Median([]data.Float{data.F(1), data.F(2), data.F(3), data.F(10)})
		Expect(got.Float64).To(Equal(2.5))
	})

	It("excludes missing values before reducing", func() {
		got := panel.Median([]data.Float{data.F(1), data.Missing(), data.F(3)})
		Expect(got.Float64).To(Equal(2.0))
	})

	It("is missing for an all-missing input", func() {
		Expect(panel.Median([]data.Float{data.Missing()}).Valid).To(BeFalse())
		Expect(panel.Median(nil).Valid).To(BeFalse())
	})
})
