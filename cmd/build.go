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
package cmd

import (
	"context"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/factorlab/panelkit/archive"
	"github.com/factorlab/panelkit/data"
	"github.com/factorlab/panelkit/export"
	"github.com/factorlab/panelkit/healthcheck"
	"github.com/factorlab/panelkit/pipeline"
	"github.com/factorlab/panelkit/sources"
	"github.com/factorlab/panelkit/store"
)

var (
	saveToDB     bool
	uploadOutput bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the firm-year panel from the configured source extracts",
	Long: `The build sub-command loads the five source tables from their configured
locations, runs the panel pipeline, and writes the finished panel to CSV and
parquet files along with a JSON run summary. Output may additionally be
saved to the database and archived to Backblaze.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		startTime := time.Now()

		inputs, err := loadInputs(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load source tables")
		}

		result, err := pipeline.Run(ctx, pipeline.ConfigFromViper(), *inputs)
		if err != nil {
			pingHealthcheck(false)
			log.Fatal().Err(err).Msg("panel build failed")
		}

		runID := result.Summary.RunID.String()
		csvFn := export.Filename("panel", runID, result.Summary.StartTime, "csv")
		parquetFn := export.Filename("panel", runID, result.Summary.StartTime, "parquet")
		summaryFn := export.Filename("panel-run", runID, result.Summary.StartTime, "json")

		if err := export.SaveCSV(result.Rows, csvFn); err != nil {
			log.Fatal().Err(err).Msg("could not write csv output")
		}
		if err := export.SaveParquet(result.Rows, parquetFn); err != nil {
			log.Fatal().Err(err).Msg("could not write parquet output")
		}
		if err := export.SaveJSON(&result.Summary, summaryFn); err != nil {
			log.Fatal().Err(err).Msg("could not write run summary")
		}

		if saveToDB {
			myStore := &store.Store{DBUrl: viper.GetString("db.url")}
			if err := myStore.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
			defer myStore.Close()

			if err := myStore.SavePanel(ctx, viper.GetString("db.panel_table"), result.Rows); err != nil {
				log.Fatal().Err(err).Msg("could not save panel to database")
			}
			if err := myStore.SaveRun(ctx, &result.Summary); err != nil {
				log.Fatal().Err(err).Msg("could not save run summary to database")
			}
		}

		if uploadOutput {
			bucket := viper.GetString("backblaze.bucket")
			dirname := result.Summary.StartTime.Format("2006-01-02")
			for _, fn := range []string{csvFn, parquetFn, summaryFn} {
				if err := archive.Upload(fn, bucket, dirname); err != nil {
					log.Fatal().Err(err).Str("FileName", fn).Msg("could not archive output")
				}
			}
		}

		pingHealthcheck(true)

		runTime := time.Since(startTime)
		log.Info().Str("RunTime", durafmt.Parse(runTime).String()).
			Int("NumRows", result.Summary.NumRows).Msg("panel build finished")
	},
}

// loadInputs reads the five source tables from their configured CSV extract
// locations. The link table may come from the remote vendor endpoint
// instead when linker.remote_url is set.
func loadInputs(ctx context.Context) (*pipeline.Inputs, error) {
	fundamentals, err := sources.LoadFundamentalsCSV(viper.GetString("sources.fundamentals"), sources.Options{})
	if err != nil {
		return nil, err
	}

	var links []data.SecurityLink
	if remoteURL := viper.GetString("linker.remote_url"); remoteURL != "" {
		links, err = sources.FetchLinksRemote(ctx, remoteURL, sources.Options{})
	} else {
		links, err = sources.LoadLinksCSV(viper.GetString("sources.links"), sources.Options{})
	}
	if err != nil {
		return nil, err
	}

	prices, err := sources.LoadPricesCSV(viper.GetString("sources.prices"), sources.Options{})
	if err != nil {
		return nil, err
	}

	forecasts, err := sources.LoadForecastsCSV(viper.GetString("sources.forecasts"), sources.Options{})
	if err != nil {
		return nil, err
	}

	actuals, err := sources.LoadActualsCSV(viper.GetString("sources.actuals"), sources.Options{})
	if err != nil {
		return nil, err
	}

	inputs := &pipeline.Inputs{
		Links:   links,
		Prices:  prices,
		Actuals: actuals,
	}
	for _, f := range fundamentals {
		inputs.Fundamentals = append(inputs.Fundamentals, *f)
	}
	for _, f := range forecasts {
		inputs.Forecasts = append(inputs.Forecasts, *f)
	}

	return inputs, nil
}

func pingHealthcheck(success bool) {
	checkID := viper.GetString("healthchecks.check_id")
	if checkID == "" {
		return
	}
	if err := healthcheck.Ping(checkID, success); err != nil {
		log.Error().Err(err).Msg("could not ping healthcheck")
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&saveToDB, "save-db", false, "save the panel and run summary to the database")
	buildCmd.Flags().BoolVar(&uploadOutput, "upload", false, "archive output files to backblaze")
}
