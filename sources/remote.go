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
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/factorlab/panelkit/data"
)

// The link vendor publishes its cross reference as a paged JSON datatable.
// Requests are rate limited to stay under the vendor's posted quota.

func linkRateLimit() *rate.Limiter {
	dur := (time.Second * 6) / 25
	return rate.NewLimiter(rate.Every(dur), 10)
}

// FetchLinksRemote downloads the full identifier cross-reference table from
// the configured vendor endpoint, following the cursor until exhausted.
func FetchLinksRemote(ctx context.Context, url string, opts Options) ([]data.SecurityLink, error) {
	if err := opts.Validate("links", LinksSchema); err != nil {
		return nil, err
	}
	if err := validateLinkProjection(opts.Projection); err != nil {
		return nil, err
	}

	limiter := linkRateLimit()
	links := make([]data.SecurityLink, 0)

	cursor := ""
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, next, err := fetchLinkPage(url, cursor, opts, &links)
		if err != nil {
			return nil, err
		}

		log.Debug().Str("Url", url).Str("Cursor", cursor).Int("NumLinks", page).
			Msg("fetched link table page")

		if next == "" {
			break
		}
		cursor = next
	}

	log.Info().Str("Url", url).Int("NumLinks", len(links)).Msg("downloaded link table")
	return links, nil
}

func fetchLinkPage(url, cursor string, opts Options, links *[]data.SecurityLink) (int, string, error) {
	client := resty.New().SetQueryParam("api_key", viper.GetString("linkvendor.apikey"))
	if cursor != "" {
		client.SetQueryParam("qopts.cursor_id", cursor)
	}

	resp, err := client.R().Get(url)
	if err != nil {
		log.Error().Err(err).Str("Url", url).Msg("link table request failed")
		return 0, "", err
	}

	if resp.StatusCode() >= 400 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Url", url).
			Bytes("Body", resp.Body()).Msg("link table request returned invalid status code")
		return 0, "", ErrRemoteStatus
	}

	body := string(resp.Body())
	numPage := 0
	for _, val := range gjson.Get(body, "datatable.data").Array() {
		record := data.SecurityLink{
			Ticker: val.Get("0").String(),
			Permno: int(val.Get("1").Int()),
			Score:  int(val.Get("2").Int()),
		}

		if opts.Filter != nil && !opts.Filter.Match(linkRow{&record}) {
			continue
		}

		*links = append(*links, record)
		numPage++
	}

	return numPage, gjson.Get(body, "meta.next_cursor_id").String(), nil
}
