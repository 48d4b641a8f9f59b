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
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"github.com/factorlab/panelkit/data"
)

// LoadFundamentalsCSV reads the fundamentals extract, applies the configured
// filter and projection, and assigns stable load-sequence numbers in file
// order.
func LoadFundamentalsCSV(fn string, opts Options) ([]*data.Fundamental, error) {
	if err := opts.Validate("fundamentals", FundamentalsSchema); err != nil {
		return nil, err
	}

	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open fundamentals extract")
		return nil, err
	}
	defer fh.Close()

	var records []*data.Fundamental
	if err := gocsv.UnmarshalFile(fh, &records); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse fundamentals extract")
		return nil, err
	}

	kept := make([]*data.Fundamental, 0, len(records))
	for i, record := range records {
		record.Seq = i
		if opts.Filter != nil && !opts.Filter.Match(fundamentalRow{record}) {
			continue
		}
		applyFundamentalProjection(record, opts.Projection)
		kept = append(kept, record)
	}

	log.Info().Str("FileName", fn).Int("NumRead", len(records)).Int("NumKept", len(kept)).
		Msg("loaded fundamentals extract")

	return kept, nil
}

// LoadLinksCSV reads the raw identifier cross-reference table. Every link
// column feeds identifier resolution, so a projection dropping one is
// rejected before any row is read.
func LoadLinksCSV(fn string, opts Options) ([]data.SecurityLink, error) {
	if err := opts.Validate("links", LinksSchema); err != nil {
		return nil, err
	}
	if err := validateLinkProjection(opts.Projection); err != nil {
		return nil, err
	}

	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open link table")
		return nil, err
	}
	defer fh.Close()

	var records []*data.SecurityLink
	if err := gocsv.UnmarshalFile(fh, &records); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse link table")
		return nil, err
	}

	kept := make([]data.SecurityLink, 0, len(records))
	for _, record := range records {
		if opts.Filter != nil && !opts.Filter.Match(linkRow{record}) {
			continue
		}
		kept = append(kept, *record)
	}

	log.Info().Str("FileName", fn).Int("NumRead", len(records)).Int("NumKept", len(kept)).
		Msg("loaded link table")

	return kept, nil
}

// LoadPricesCSV reads the security price series.
func LoadPricesCSV(fn string, opts Options) ([]data.PriceBar, error) {
	if err := opts.Validate("prices", PricesSchema); err != nil {
		return nil, err
	}

	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open price extract")
		return nil, err
	}
	defer fh.Close()

	var records []*data.PriceBar
	if err := gocsv.UnmarshalFile(fh, &records); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse price extract")
		return nil, err
	}

	kept := make([]data.PriceBar, 0, len(records))
	for _, record := range records {
		if opts.Filter != nil && !opts.Filter.Match(priceRow{record}) {
			continue
		}
		applyPriceProjection(record, opts.Projection)
		kept = append(kept, *record)
	}

	log.Info().Str("FileName", fn).Int("NumRead", len(records)).Int("NumKept", len(kept)).
		Msg("loaded price extract")

	return kept, nil
}

// LoadForecastsCSV reads the analyst detail forecast extract, assigning
// stable load-sequence numbers in file order.
func LoadForecastsCSV(fn string, opts Options) ([]*data.Forecast, error) {
	if err := opts.Validate("forecasts", ForecastsSchema); err != nil {
		return nil, err
	}

	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open forecast extract")
		return nil, err
	}
	defer fh.Close()

	var records []*data.Forecast
	if err := gocsv.UnmarshalFile(fh, &records); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse forecast extract")
		return nil, err
	}

	kept := make([]*data.Forecast, 0, len(records))
	for i, record := range records {
		record.Seq = i
		if opts.Filter != nil && !opts.Filter.Match(forecastRow{record}) {
			continue
		}
		applyForecastProjection(record, opts.Projection)
		kept = append(kept, record)
	}

	log.Info().Str("FileName", fn).Int("NumRead", len(records)).Int("NumKept", len(kept)).
		Msg("loaded forecast extract")

	return kept, nil
}

// LoadActualsCSV reads the realized earnings extract.
func LoadActualsCSV(fn string, opts Options) ([]data.ActualEarnings, error) {
	if err := opts.Validate("actuals", ActualsSchema); err != nil {
		return nil, err
	}

	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open actuals extract")
		return nil, err
	}
	defer fh.Close()

	var records []*data.ActualEarnings
	if err := gocsv.UnmarshalFile(fh, &records); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse actuals extract")
		return nil, err
	}

	kept := make([]data.ActualEarnings, 0, len(records))
	for _, record := range records {
		if opts.Filter != nil && !opts.Filter.Match(actualRow{record}) {
			continue
		}
		applyActualProjection(record, opts.Projection)
		kept = append(kept, *record)
	}

	log.Info().Str("FileName", fn).Int("NumRead", len(records)).Int("NumKept", len(kept)).
		Msg("loaded actuals extract")

	return kept, nil
}
