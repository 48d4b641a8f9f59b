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
package panel_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/factorlab/panelkit/panel"
)

type revision struct {
	key  string
	when int
	seq  int
	body string
}

func revisionKey(r revision) string { return r.key }

func revisionLess(a, b revision) bool {
	if a.when != b.when {
		return a.when < b.when
	}
	return a.seq < b.seq
}

var _ = Describe("KeepLast", func() {
	It("keeps the latest revision per key", func() {
		kept := panel.KeepLast([]revision{
			{key: "A", when: 2, seq: 0, body: "late"},
			{key: "A", when: 1, seq: 1, body: "early"},
			{key: "B", when: 5, seq: 2, body: "only"},
		}, revisionKey, revisionLess)

		Expect(kept).To(HaveLen(2))
		Expect(kept[0].body).To(Equal("late"))
		Expect(kept[1].body).To(Equal("only"))
	})

	It("breaks timestamp ties with the load sequence number", func() {
		kept := panel.KeepLast([]revision{
			{key: "A", when: 3, seq: 0, body: "first-loaded"},
			{key: "A", when: 3, seq: 1, body: "second-loaded"},
		}, revisionKey, revisionLess)

		Expect(kept).To(HaveLen(1))
		Expect(kept[0].body).To(Equal("second-loaded"))
	})

	It("is deterministic regardless of input order", func() {
		rows := []revision{
			{key: "A", when: 3, seq: 0},
			{key: "A", when: 1, seq: 1},
			{key: "A", when: 2, seq: 2},
		}
		shuffled := []revision{rows[2], rows[0], rows[1]}

		a := panel.KeepLast(rows, revisionKey, revisionLess)
		b := panel.KeepLast(shuffled, revisionKey, revisionLess)
		Expect(a).To(Equal(b))
	})

	It("returns output sorted by key", func() {
		kept := panel.KeepLast([]revision{
			{key: "Z", when: 1},
			{key: "A", when: 1},
		}, revisionKey, revisionLess)
		Expect(kept[0].key).To(Equal("A"))
		Expect(kept[1].key).To(Equal("Z"))
	})
})

var _ = Describe("RequireUnique", func() {
	It("accepts unique rows", func() {
		err := panel.RequireUnique("actuals", []revision{
			{key: "A"}, {key: "B"},
		}, revisionKey)
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails the stage and names the offending keys", func() {
		err := panel.RequireUnique("actuals", []revision{
			{key: "A"}, {key: "A"}, {key: "B"}, {key: "B"}, {key: "C"},
		}, revisionKey)
		Expect(err).To(HaveOccurred())

		var violation *panel.UniquenessViolationError
		Expect(errors.As(err, &violation)).To(BeTrue())
		Expect(violation.Stage).To(Equal("actuals"))
		Expect(violation.Keys).To(Equal([]string{"A", "B"}))
		Expect(violation.NumRows).To(Equal(4))
	})
})
