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
	"math"
	"strconv"
)

// Float is a numeric value that tracks whether it was actually observed in
// the source data. Vendor extracts mark missing items with a variety of
// sentinels (empty string, ".", "NA"); those all decode to an invalid Float.
// Arithmetic on Floats propagates missing-ness instead of faulting.
type Float struct {
	Float64 float64
	Valid   bool
}

// F wraps an observed value.
func F(v float64) Float {
	return Float{Float64: v, Valid: true}
}

// Missing is the canonical absent value.
func Missing() Float {
	return Float{}
}

func (f Float) Add(other Float) Float {
	if !f.Valid || !other.Valid {
		return Missing()
	}
	return F(f.Float64 + other.Float64)
}

func (f Float) Sub(other Float) Float {
	if !f.Valid || !other.Valid {
		return Missing()
	}
	return F(f.Float64 - other.Float64)
}

func (f Float) Mul(other Float) Float {
	if !f.Valid || !other.Valid {
		return Missing()
	}
	return F(f.Float64 * other.Float64)
}

// Div returns missing when either operand is missing or the denominator is
// zero. Division never faults.
func (f Float) Div(other Float) Float {
	if !f.Valid || !other.Valid || other.Float64 == 0 {
		return Missing()
	}
	return F(f.Float64 / other.Float64)
}

func (f Float) Abs() Float {
	if !f.Valid {
		return Missing()
	}
	return F(math.Abs(f.Float64))
}

// Ptr converts to the pointer form used for database parameters; missing
// values become NULL.
func (f Float) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// FromPtr converts a nullable database value back to a Float.
func FromPtr(v *float64) Float {
	if v == nil {
		return Missing()
	}
	return F(*v)
}

// Sum adds all operands; a single missing operand makes the result missing.
func Sum(values ...Float) Float {
	total := F(0)
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// missingSentinels are the values vendor extracts use for absent fields.
var missingSentinels = map[string]bool{
	"":   true,
	".":  true,
	"NA": true,
	"nan": true,
	"NaN": true,
}

// UnmarshalCSV implements the gocsv unmarshaler; sentinel values decode to
// a missing Float rather than an error.
func (f *Float) UnmarshalCSV(csv string) error {
	if missingSentinels[csv] {
		*f = Missing()
		return nil
	}

	v, err := strconv.ParseFloat(csv, 64)
	if err != nil {
		return err
	}

	*f = F(v)
	return nil
}

// MarshalCSV implements the gocsv marshaler; missing values encode as the
// empty string.
func (f *Float) MarshalCSV() (string, error) {
	if !f.Valid {
		return "", nil
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64), nil
}
