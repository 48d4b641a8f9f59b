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

// Package store persists panel rows and run summaries to Postgres.
package store

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/factorlab/panelkit/data"
)

type Store struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// Connect to the configured database
func (myStore *Store) Connect(ctx context.Context) error {
	if myStore.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myStore.DBUrl)
	if err != nil {
		return err
	}
	myStore.Pool = pool

	return nil
}

// Close the database pool
func (myStore *Store) Close() {
	myStore.Pool.Close()
}

// SavePanel upserts every panel row into tbl
func (myStore *Store) SavePanel(ctx context.Context, tbl string, rows []data.PanelRow) error {
	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for i := range rows {
		row := &rows[i]
		if err := row.SaveDB(ctx, tbl, conn); err != nil {
			log.Error().Err(err).Object("PanelRow", row).Msg("error saving panel row")
			return err
		}
	}

	log.Info().Int("NumRows", len(rows)).Str("Table", tbl).Msg("saved panel to database")
	return nil
}

// SaveRun records the run summary
func (myStore *Store) SaveRun(ctx context.Context, summary *data.RunSummary) error {
	conn, err := myStore.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO runs (
		"run_id",
		"start_time",
		"end_time",
		"status",
		"num_firms",
		"num_rows",
		"ambiguous_links",
		"rejected_links",
		"no_price_match",
		"missing_operands"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`, summary.RunID, summary.StartTime, summary.EndTime, string(summary.Status),
		summary.NumFirms, summary.NumRows, summary.AmbiguousLinks, summary.RejectedLinks,
		summary.NoPriceMatch, summary.MissingOperands)
	return err
}

// LastRun returns the most recent run summary, or nil when no run has been
// recorded yet.
func (myStore *Store) LastRun(ctx context.Context) (*data.RunSummary, error) {
	var summaries []data.RunSummary
	err := pgxscan.Select(ctx, myStore.Pool, &summaries,
		`SELECT run_id, start_time, end_time, status, num_firms, num_rows,
			ambiguous_links, rejected_links, no_price_match, missing_operands
		FROM runs ORDER BY start_time DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}
