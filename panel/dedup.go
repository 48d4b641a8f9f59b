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
package panel

import (
	"fmt"
	"sort"
	"strings"
)

// KeepLast retains the final row per key under the supplied ordering. The
// ordering must be total over rows sharing a key; callers include a stable
// load-sequence number as the final component so that duplicate timestamps
// within a group still resolve deterministically. Output is sorted by key.
func KeepLast[T any](rows []T, key func(T) string, less func(a, b T) bool) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return ki < kj
		}
		return less(sorted[i], sorted[j])
	})

	kept := make([]T, 0, len(sorted))
	for i, row := range sorted {
		if i+1 < len(sorted) && key(sorted[i+1]) == key(row) {
			continue
		}
		kept = append(kept, row)
	}

	return kept
}

// UniquenessViolationError reports a keep-unique-or-fail check that found
// more than one row for a key. It is fatal for the stage that raised it.
type UniquenessViolationError struct {
	Stage   string
	Keys    []string
	NumRows int
}

func (err *UniquenessViolationError) Error() string {
	keys := err.Keys
	truncated := ""
	if len(keys) > 5 {
		keys = keys[:5]
		truncated = ", ..."
	}
	return fmt.Sprintf("uniqueness violation in %s: %d duplicate key(s) over %d row(s): %s%s",
		err.Stage, len(err.Keys), err.NumRows, strings.Join(keys, ", "), truncated)
}

// RequireUnique asserts exactly one row per key. It is a correctness check,
// not a transformation: violations surface the offending keys instead of
// silently dropping rows.
func RequireUnique[T any](stage string, rows []T, key func(T) string) error {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[key(row)]++
	}

	var dupes []string
	numRows := 0
	for k, n := range counts {
		if n > 1 {
			dupes = append(dupes, k)
			numRows += n
		}
	}

	if len(dupes) == 0 {
		return nil
	}

	sort.Strings(dupes)
	return &UniquenessViolationError{Stage: stage, Keys: dupes, NumRows: numRows}
}
