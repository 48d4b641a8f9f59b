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
package match_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/match"
)

var _ = Describe("Window", func() {
	target := time.Date(2019, 10, 30, 0, 0, 0, 0, time.UTC)

	It("computes a day-based start", func() {
		w := match.Window{Length: 7, Unit: match.Days}
		Expect(w.Start(target)).To(Equal(time.Date(2019, 10, 23, 0, 0, 0, 0, time.UTC)))
	})

	It("computes a week-based start", func() {
		w := match.Window{Length: 2, Unit: match.Weeks}
		Expect(w.Start(target)).To(Equal(time.Date(2019, 10, 16, 0, 0, 0, 0, time.UTC)))
	})

	It("computes a month-based start", func() {
		w := match.Window{Length: 1, Unit: match.Months}
		Expect(w.Start(target)).To(Equal(time.Date(2019, 9, 30, 0, 0, 0, 0, time.UTC)))
	})
})

var _ = Describe("Nearest", func() {
	target := time.Date(2019, 10, 30, 0, 0, 0, 0, time.UTC)
	window := match.Window{Length: 7, Unit: match.Days}

	bar := func(y int, m time.Month, d int, price float64) data.PriceBar {
		return data.PriceBar{Permno: 10001, Date: data.D(y, m, d), Price: data.F(price)}
	}

	It("picks the closest bar at or before the target", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 25, 51),
			bar(2019, time.October, 28, 52),
		}

		got, ok := match.Nearest(series, target, window)
		Expect(ok).To(BeTrue())
		Expect(got.Date.Day()).To(Equal(28))
	})

	It("never looks forward past the target", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 31, 99),
			bar(2019, time.October, 25, 51),
		}

		got, ok := match.Nearest(series, target, window)
		Expect(ok).To(BeTrue())
		Expect(got.Date.Day()).To(Equal(25))
	})

	It("reports no match when the window is empty", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 1, 50),
			bar(2019, time.November, 4, 55),
		}

		_, ok := match.Nearest(series, target, window)
		Expect(ok).To(BeFalse())
	})

	It("matches a bar exactly on the target date at distance zero", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 30, 53),
			bar(2019, time.October, 28, 52),
		}

		got, ok := match.Nearest(series, target, window)
		Expect(ok).To(BeTrue())
		Expect(got.Date.Day()).To(Equal(30))
	})

	It("breaks duplicate-date ties to the lowest price", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 28, 54),
			bar(2019, time.October, 28, 52),
		}

		got, ok := match.Nearest(series, target, window)
		Expect(ok).To(BeTrue())
		Expect(got.Price.Float64).To(Equal(52.0))
	})

	It("breaks equal-price ties to the lowest adjustment factor", func() {
		a := bar(2019, time.October, 28, 52)
		a.AdjFactor = data.F(2)
		b := bar(2019, time.October, 28, 52)
		b.AdjFactor = data.F(1)

		got, ok := match.Nearest([]data.PriceBar{a, b}, target, window)
		Expect(ok).To(BeTrue())
		Expect(got.AdjFactor.Float64).To(Equal(1.0))
	})

	It("is independent of series order", func() {
		series := []data.PriceBar{
			bar(2019, time.October, 25, 51),
			bar(2019, time.October, 28, 52),
			bar(2019, time.October, 23, 50),
		}
		reversed := []data.PriceBar{series[2], series[1], series[0]}

		a, _ := match.Nearest(series, target, window)
		b, _ := match.Nearest(reversed, target, window)
		Expect(a).To(Equal(b))
	})
})
