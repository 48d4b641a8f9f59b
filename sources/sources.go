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

// Package sources loads the five input tables (fundamentals, prices, link
// table, forecasts, actual earnings) from CSV extracts, a Postgres library,
// or a remote extract endpoint. Each source has a fixed declared schema;
// configured filters and projections are validated against that schema
// before any row is read and applied during the load.
package sources

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/factorlab/panelkit/filter"
)

// Options configure one source load: an optional row predicate and an
// optional column projection. A nil Filter keeps every row; an empty
// Projection keeps every column.
type Options struct {
	Filter     filter.Expr
	Projection filter.Projection
}

// Validate checks the options against a source schema, tagging any schema
// error with the source name. This runs before the first row is read, so a
// bad configuration aborts the run with no partial output.
func (opts Options) Validate(source string, schema map[string]filter.Kind) error {
	if opts.Filter != nil {
		if err := opts.Filter.Validate(schema); err != nil {
			return tagSource(err, source)
		}
	}
	if err := opts.Projection.Validate(schema); err != nil {
		return tagSource(err, source)
	}
	return nil
}

// ErrRemoteStatus indicates a remote extract endpoint returned a non-2xx
// status code.
var ErrRemoteStatus = errors.New("remote source returned invalid status code")

func tagSource(err error, source string) error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, nested := range merr.Errors {
			tagSource(nested, source)
		}
		return err
	}
	var schemaErr *filter.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Source == "" {
		schemaErr.Source = source
	}
	return err
}

// validateLinkProjection rejects projections over the link table. Every link
// column participates in identifier resolution, so none can be dropped.
func validateLinkProjection(projection filter.Projection) error {
	for _, col := range []string{"ticker", "permno", "score"} {
		if !projection.Keeps(col) {
			return &filter.SchemaError{Source: "links", Column: col, Dropped: true}
		}
	}
	return nil
}

// Declared column schemas, one per source table. Filters and projections may
// reference these columns and no others.
var (
	FundamentalsSchema = map[string]filter.Kind{
		"gvkey":    filter.String,
		"tic":      filter.String,
		"datadate": filter.Date,
		"fyear":    filter.Number,
		"at":       filter.Number,
		"sale":     filter.Number,
		"seq":      filter.Number,
		"ceq":      filter.Number,
		"pstk":     filter.Number,
		"lt":       filter.Number,
		"mib":      filter.Number,
		"prcc_f":   filter.Number,
		"csho":     filter.Number,
	}

	LinksSchema = map[string]filter.Kind{
		"ticker": filter.String,
		"permno": filter.Number,
		"score":  filter.Number,
	}

	PricesSchema = map[string]filter.Kind{
		"permno":  filter.Number,
		"date":    filter.Date,
		"prc":     filter.Number,
		"cfacshr": filter.Number,
	}

	ForecastsSchema = map[string]filter.Kind{
		"ticker":    filter.String,
		"fpedats":   filter.Date,
		"estimator": filter.String,
		"analys":    filter.String,
		"anndats":   filter.Date,
		"value":     filter.Number,
		"basis":     filter.String,
	}

	ActualsSchema = map[string]filter.Kind{
		"ticker":  filter.String,
		"pends":   filter.Date,
		"anndats": filter.Date,
		"value":   filter.Number,
	}
)
