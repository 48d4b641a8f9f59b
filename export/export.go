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

// Package export writes the finished panel to CSV and parquet files and the
// run summary to JSON.
package export

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gocarina/gocsv"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/factorlab/panelkit/data"
)

// Filename builds a slugged output filename tagged with the run date and the
// first segment of the run id.
func Filename(name string, runID string, runDate time.Time, ext string) string {
	base := slug.Make(fmt.Sprintf("%s %s %s", name, runDate.Format("20060102"), runID[:8]))
	return fmt.Sprintf("%s.%s", base, ext)
}

// SaveCSV writes the panel rows to a CSV file.
func SaveCSV(rows []data.PanelRow, fn string) error {
	fh, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create csv file")
		return err
	}
	defer fh.Close()

	if err := gocsv.MarshalFile(&rows, fh); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("csv write failed")
		return err
	}

	log.Info().Int("NumRecords", len(rows)).Str("FileName", fn).Msg("csv write finished")
	return nil
}

// SaveJSON writes the run summary to a JSON file.
func SaveJSON(summary *data.RunSummary, fn string) error {
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(fn, body, 0644); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("summary write failed")
		return err
	}

	return nil
}
