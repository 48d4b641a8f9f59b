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
package data

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunSummary captures one pipeline execution: timing, output volume, and the
// per-run diagnostic counters for row-level conditions that were absorbed
// into missing values rather than raised as errors.
type RunSummary struct {
	RunID     uuid.UUID `json:"run_id" db:"run_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`
	Status    RunStatus `json:"status" db:"status"`

	NumFirms int `json:"num_firms" db:"num_firms"`
	NumRows  int `json:"num_rows" db:"num_rows"`

	// Diagnostics: row-level conditions absorbed into missing values.
	AmbiguousLinks  int `json:"ambiguous_links" db:"ambiguous_links"`
	RejectedLinks   int `json:"rejected_links" db:"rejected_links"`
	NoPriceMatch    int `json:"no_price_match" db:"no_price_match"`
	MissingOperands int `json:"missing_operands" db:"missing_operands"`
}
