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
)

const dateFormat = "2006-01-02"

// Date is a calendar date (no time-of-day component) as found in source
// extracts. The zero Date means the field was absent.
type Date struct {
	time.Time
}

// D builds a Date from year, month, and day in UTC.
func D(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalCSV parses YYYY-MM-DD; the empty string decodes to the zero Date.
func (d *Date) UnmarshalCSV(csv string) error {
	if csv == "" {
		*d = Date{}
		return nil
	}

	t, err := time.Parse(dateFormat, csv)
	if err != nil {
		return err
	}

	*d = Date{Time: t}
	return nil
}

func (d *Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateFormat), nil
}
