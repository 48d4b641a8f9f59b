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
package sources_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/filter"
	"github.com/factorlab/panelkit/sources"
)

func writeExtract(dir, name, body string) string {
	fn := filepath.Join(dir, name)
	Expect(os.WriteFile(fn, []byte(body), 0644)).To(Succeed())
	return fn
}

var _ = Describe("LoadFundamentalsCSV", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("parses vendor mnemonics and missing sentinels", func() {
		fn := writeExtract(dir, "funda.csv",
			"gvkey,tic,datadate,fyear,at,sale,seq,ceq,pstk,lt,mib,prcc_f,csho\n"+
				"001000,IBM,1995-12-31,1995,100.5,.,NA,90,10,,,50,10\n")

		records, err := sources.LoadFundamentalsCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))

		f := records[0]
		Expect(f.FirmID).To(Equal("001000"))
		Expect(f.Ticker).To(Equal("IBM"))
		Expect(f.FiscalYear).To(Equal(1995))
		Expect(f.PeriodEnd.Year()).To(Equal(1995))
		Expect(f.Assets.Float64).To(Equal(100.5))
		Expect(f.Sales.Valid).To(BeFalse())
		Expect(f.StockholdersEquity.Valid).To(BeFalse())
		Expect(f.CommonEquity.Float64).To(Equal(90.0))
		Expect(f.Liabilities.Valid).To(BeFalse())
	})

	It("assigns load-sequence numbers in file order", func() {
		fn := writeExtract(dir, "funda.csv",
			"gvkey,tic,datadate,fyear,at,sale,seq,ceq,pstk,lt,mib,prcc_f,csho\n"+
				"001000,IBM,1995-12-31,1995,1,,,,,,,,\n"+
				"001000,IBM,1995-12-31,1995,2,,,,,,,,\n")

		records, err := sources.LoadFundamentalsCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].Seq).To(Equal(0))
		Expect(records[1].Seq).To(Equal(1))
	})

	It("applies the configured row filter during the load", func() {
		fn := writeExtract(dir, "funda.csv",
			"gvkey,tic,datadate,fyear,at,sale,seq,ceq,pstk,lt,mib,prcc_f,csho\n"+
				"001000,IBM,1995-12-31,1995,1,,,,,,,,\n"+
				"001000,IBM,1989-12-31,1989,2,,,,,,,,\n")

		records, err := sources.LoadFundamentalsCSV(fn, sources.Options{
			Filter: &filter.Comparison{Column: "fyear", Op: filter.Ge, Value: filter.Num(1990)},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].FiscalYear).To(Equal(1995))
	})

	It("blanks value columns outside the projection", func() {
		fn := writeExtract(dir, "funda.csv",
			"gvkey,tic,datadate,fyear,at,sale,seq,ceq,pstk,lt,mib,prcc_f,csho\n"+
				"001000,IBM,1995-12-31,1995,100,200,,,,,,,\n")

		records, err := sources.LoadFundamentalsCSV(fn, sources.Options{
			Projection: filter.Projection{"at"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].Assets.Valid).To(BeTrue())
		Expect(records[0].Sales.Valid).To(BeFalse())
		// Key columns always survive projection.
		Expect(records[0].FirmID).To(Equal("001000"))
	})

	It("fails before reading any row when the filter references an unknown column", func() {
		fn := writeExtract(dir, "funda.csv", "gvkey\n001000\n")

		_, err := sources.LoadFundamentalsCSV(fn, sources.Options{
			Filter: &filter.Comparison{Column: "bogus", Op: filter.Eq, Value: filter.Num(1)},
		})
		Expect(err).To(HaveOccurred())

		var schemaErr *filter.SchemaError
		Expect(errors.As(err, &schemaErr)).To(BeTrue())
		Expect(schemaErr.Source).To(Equal("fundamentals"))
	})

	It("tags every schema error with the source name", func() {
		fn := writeExtract(dir, "funda.csv", "gvkey\n001000\n")

		_, err := sources.LoadFundamentalsCSV(fn, sources.Options{
			Projection: filter.Projection{"bogus1", "bogus2"},
		})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("fundamentals.bogus1"))
		Expect(err.Error()).To(ContainSubstring("fundamentals.bogus2"))
	})
})

var _ = Describe("LoadLinksCSV", func() {
	It("parses the cross-reference table", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "links.csv",
			"ticker,permno,score\nIBM,12490,0\nMSFT,10107,1\n")

		links, err := sources.LoadLinksCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(links).To(HaveLen(2))
		Expect(links[0].Permno).To(Equal(12490))
	})

	It("accepts a projection naming the full column set", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "links.csv",
			"ticker,permno,score\nIBM,12490,0\n")

		links, err := sources.LoadLinksCSV(fn, sources.Options{
			Projection: filter.Projection{"ticker", "permno", "score"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(links).To(HaveLen(1))
	})

	It("rejects a projection dropping a link column", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "links.csv",
			"ticker,permno,score\nIBM,12490,0\n")

		_, err := sources.LoadLinksCSV(fn, sources.Options{
			Projection: filter.Projection{"ticker", "permno"},
		})
		Expect(err).To(HaveOccurred())

		var schemaErr *filter.SchemaError
		Expect(errors.As(err, &schemaErr)).To(BeTrue())
		Expect(schemaErr.Source).To(Equal("links"))
		Expect(schemaErr.Column).To(Equal("score"))
		Expect(schemaErr.Dropped).To(BeTrue())
	})
})

var _ = Describe("LoadPricesCSV", func() {
	It("parses price bars with missing prices", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "prices.csv",
			"permno,date,prc,cfacshr\n12490,2019-10-28,52.5,2\n12490,2019-10-29,,2\n")

		bars, err := sources.LoadPricesCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(bars).To(HaveLen(2))
		Expect(bars[0].Price.Float64).To(Equal(52.5))
		Expect(bars[1].Price.Valid).To(BeFalse())
	})

	It("blanks value columns outside the projection", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "prices.csv",
			"permno,date,prc,cfacshr\n12490,2019-10-28,52.5,2\n")

		bars, err := sources.LoadPricesCSV(fn, sources.Options{
			Projection: filter.Projection{"prc"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(bars[0].Price.Float64).To(Equal(52.5))
		Expect(bars[0].AdjFactor.Valid).To(BeFalse())
		// Key columns always survive projection.
		Expect(bars[0].Permno).To(Equal(12490))
		Expect(bars[0].Date.IsZero()).To(BeFalse())
	})
})

var _ = Describe("LoadForecastsCSV", func() {
	It("parses detail forecasts with sequence numbers", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "det.csv",
			"ticker,fpedats,estimator,analys,anndats,value,basis\n"+
				"IBM,1995-12-31,100,5001,1995-06-15,2.5,P\n"+
				"IBM,1995-12-31,100,5001,1995-09-15,2.7,P\n")

		forecasts, err := sources.LoadForecastsCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(forecasts).To(HaveLen(2))
		Expect(forecasts[0].Seq).To(Equal(0))
		Expect(forecasts[1].Seq).To(Equal(1))
		Expect(forecasts[1].Value.Float64).To(Equal(2.7))
	})

	It("blanks value columns outside the projection", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "det.csv",
			"ticker,fpedats,estimator,analys,anndats,value,basis\n"+
				"IBM,1995-12-31,100,5001,1995-06-15,2.5,P\n")

		forecasts, err := sources.LoadForecastsCSV(fn, sources.Options{
			Projection: filter.Projection{"value"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(forecasts[0].Value.Float64).To(Equal(2.5))
		Expect(forecasts[0].Basis).To(BeEmpty())
		// Key columns always survive projection.
		Expect(forecasts[0].AnalystID).To(Equal("5001"))
		Expect(forecasts[0].AnnounceDate.IsZero()).To(BeFalse())
	})
})

var _ = Describe("LoadActualsCSV", func() {
	It("parses realized earnings", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "act.csv",
			"ticker,pends,anndats,value\nIBM,1995-12-31,1996-01-20,2.8\n")

		actuals, err := sources.LoadActualsCSV(fn, sources.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(actuals).To(HaveLen(1))
		Expect(actuals[0].Value.Float64).To(Equal(2.8))
	})

	It("blanks value columns outside the projection", func() {
		dir := GinkgoT().TempDir()
		fn := writeExtract(dir, "act.csv",
			"ticker,pends,anndats,value\nIBM,1995-12-31,1996-01-20,2.8\n")

		actuals, err := sources.LoadActualsCSV(fn, sources.Options{
			Projection: filter.Projection{"ticker", "pends", "anndats"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(actuals[0].Value.Valid).To(BeFalse())
		Expect(actuals[0].Ticker).To(Equal("IBM"))
	})
})
