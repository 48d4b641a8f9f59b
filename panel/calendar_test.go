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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/panel"
)

var _ = Describe("Calendar", func() {
	day := func(y int) time.Time { return time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC) }

	It("derives one span per firm from observed dates", func() {
		spans := panel.Spans([]panel.Observation{
			{FirmID: "001", Date: day(1995)},
			{FirmID: "001", Date: day(1992)},
			{FirmID: "002", Date: day(2000)},
		})

		Expect(spans).To(HaveLen(2))
		Expect(spans[0].FirmID).To(Equal("001"))
		Expect(spans[0].YearMin).To(Equal(1992))
		Expect(spans[0].YearMax).To(Equal(1995))
		Expect(spans[1].FirmID).To(Equal("002"))
		Expect(spans[1].YearMin).To(Equal(2000))
		Expect(spans[1].YearMax).To(Equal(2000))
	})

	It("expands spans into a gapless year calendar", func() {
		entries := panel.Calendar(panel.Spans([]panel.Observation{
			{FirmID: "001", Date: day(1992)},
			{FirmID: "001", Date: day(1995)},
		}))

		years := make([]int, 0, len(entries))
		for _, e := range entries {
			years = append(years, e.Year)
		}
		Expect(years).To(Equal([]int{1992, 1993, 1994, 1995}))
	})

	It("covers years with no observation between the first and last", func() {
		// 1993 and 1994 never appear in the observations; they must still
		// be in the calendar.
		spans := panel.Spans([]panel.Observation{
			{FirmID: "001", Date: day(1992)},
			{FirmID: "001", Date: day(1995)},
		})
		entries := panel.Calendar(spans)

		Expect(entries).To(HaveLen(4))
		for _, e := range entries {
			Expect(e.YearMin).To(Equal(1992))
			Expect(e.YearMax).To(Equal(1995))
		}
	})

	It("yields a single-year calendar for a single observation", func() {
		spans := panel.Spans([]panel.Observation{{FirmID: "001", Date: day(1999)}})
		entries := panel.Calendar(spans)
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Year).To(Equal(1999))
	})
})
