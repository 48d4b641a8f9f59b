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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "panelkit",
	Short: "panelkit builds a linked firm-year research panel from raw market data extracts",
	Long: `panelkit assembles annual firm fundamentals, security prices, analyst
forecasts, and realized earnings into a single firm-year panel suitable for
cross-sectional research.

Raw extracts rarely join cleanly: firms report on fiscal calendars, tickers
are recycled across securities, analysts revise their estimates, and price
files carry duplicate dates. panelkit resolves these frictions with a fixed
sequence of deterministic steps:

	* a gapless firm-year calendar spine derived from observed fundamentals
	* confidence-scored ticker-to-security linking with ambiguity exclusion
	* nearest-date price matching inside a bounded lookback window
	* keep-last deduplication of revised fundamentals and forecasts
	* fallback chains for book and market equity
	* per-row ratios with missing-value propagation instead of faults

Running the same inputs always yields the same panel, row for row.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.panelkit.toml)")
	rootCmd.PersistentFlags().String("dbUrl", "", "database connection string")
	if err := viper.BindPFlag("db.url", rootCmd.PersistentFlags().Lookup("dbUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dbUrl failed")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".panelkit" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".panelkit")
	}

	viper.SetDefault("sample.start_year", 0)
	viper.SetDefault("sample.end_year", 0)
	viper.SetDefault("linker.accept_scores", []int{0, 1})
	viper.SetDefault("match.lookback_length", 30)
	viper.SetDefault("match.lookback_unit", "days")
	viper.SetDefault("pipeline.workers", 4)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
