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
	"context"
	"sort"

	"github.com/alphadose/haxmap"
	"golang.org/x/sync/errgroup"
)

// ByGroup partitions rows by key and runs fn once per group. Groups are
// independent, so they execute in parallel up to workers goroutines; results
// are collected in a concurrent map and reassembled in ascending key order,
// so the final row order never depends on goroutine completion order.
func ByGroup[T, R any](ctx context.Context, rows []T, workers int, key func(T) string, fn func(key string, group []T) []R) ([]R, error) {
	groups := make(map[string][]T)
	for _, row := range rows {
		k := key(row)
		groups[k] = append(groups[k], row)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if workers < 1 {
		workers = 1
	}

	results := haxmap.New[string, []R](uintptr(len(groups) + 1))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, k := range keys {
		k := k
		group := groups[k]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results.Set(k, fn(k, group))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]R, 0, len(rows))
	for _, k := range keys {
		if rs, ok := results.Get(k); ok {
			out = append(out, rs...)
		}
	}

	return out, nil
}
