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

// Package filter implements declarative row predicates as expression trees
// over named columns. Predicates are configuration, not code: a source's
// filter is data that can be validated against the source schema before any
// row is read, and evaluated per row during the load.
package filter

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Kind is the value type of a column.
type Kind int

const (
	String Kind = iota
	Number
	Date
)

// Value is a typed operand or cell value. Missing marks a cell whose source
// field carried a sentinel; comparisons against missing cells never match.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Date    time.Time
	Missing bool
}

func Str(s string) Value {
	return Value{Kind: String, Str: s}
}

func Num(v float64) Value {
	return Value{Kind: Number, Num: v}
}

func Day(t time.Time) Value {
	return Value{Kind: Date, Date: t}
}

func MissingValue(kind Kind) Value {
	return Value{Kind: kind, Missing: true}
}

// compare returns -1, 0, or 1 and false when the operands are not comparable
// (missing or mismatched kinds).
func compare(a, b Value) (int, bool) {
	if a.Missing || b.Missing || a.Kind != b.Kind {
		return 0, false
	}

	switch a.Kind {
	case String:
		switch {
		case a.Str < b.Str:
			return -1, true
		case a.Str > b.Str:
			return 1, true
		}
		return 0, true
	case Number:
		switch {
		case a.Num < b.Num:
			return -1, true
		case a.Num > b.Num:
			return 1, true
		}
		return 0, true
	case Date:
		switch {
		case a.Date.Before(b.Date):
			return -1, true
		case a.Date.After(b.Date):
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// Row provides access to a record's cells by column name. The ok result is
// false for columns outside the source schema; static validation makes that
// case unreachable during evaluation.
type Row interface {
	Field(name string) (Value, bool)
}

// Expr is a predicate over a Row. Validate must be called with the source
// schema before the first Match; it fails with a SchemaError for any
// reference to an unknown column.
type Expr interface {
	Validate(schema map[string]Kind) error
	Match(row Row) bool
}

type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Comparison matches rows whose column stands in the given relation to a
// constant operand. A missing cell never matches, for any operator: a field
// compared against a sentinel is never "missing" by implication, callers use
// NonMissing for explicit presence checks.
type Comparison struct {
	Column string
	Op     Op
	Value  Value
}

func (c *Comparison) Validate(schema map[string]Kind) error {
	kind, ok := schema[c.Column]
	if !ok {
		return &SchemaError{Column: c.Column}
	}
	if kind != c.Value.Kind {
		return &SchemaError{Column: c.Column, KindMismatch: true}
	}
	return nil
}

func (c *Comparison) Match(row Row) bool {
	cell, ok := row.Field(c.Column)
	if !ok {
		return false
	}

	order, comparable := compare(cell, c.Value)
	if !comparable {
		return false
	}

	switch c.Op {
	case Eq:
		return order == 0
	case Ne:
		return order != 0
	case Lt:
		return order < 0
	case Le:
		return order <= 0
	case Gt:
		return order > 0
	case Ge:
		return order >= 0
	}

	return false
}

// Range matches rows whose column falls in [Min, Max] inclusive. Commonly
// used for date-range bounds on a sample period.
type Range struct {
	Column string
	Min    Value
	Max    Value
}

func (r *Range) Validate(schema map[string]Kind) error {
	kind, ok := schema[r.Column]
	if !ok {
		return &SchemaError{Column: r.Column}
	}
	if kind != r.Min.Kind || kind != r.Max.Kind {
		return &SchemaError{Column: r.Column, KindMismatch: true}
	}
	return nil
}

func (r *Range) Match(row Row) bool {
	cell, ok := row.Field(r.Column)
	if !ok {
		return false
	}

	lower, comparable := compare(cell, r.Min)
	if !comparable || lower < 0 {
		return false
	}

	upper, comparable := compare(cell, r.Max)
	if !comparable {
		return false
	}

	return upper <= 0
}

// In matches rows whose column equals any member of Set (categorical
// equality check).
type In struct {
	Column string
	Set    []Value
}

func (in *In) Validate(schema map[string]Kind) error {
	kind, ok := schema[in.Column]
	if !ok {
		return &SchemaError{Column: in.Column}
	}
	for _, v := range in.Set {
		if v.Kind != kind {
			return &SchemaError{Column: in.Column, KindMismatch: true}
		}
	}
	return nil
}

func (in *In) Match(row Row) bool {
	cell, ok := row.Field(in.Column)
	if !ok {
		return false
	}

	for _, v := range in.Set {
		if order, comparable := compare(cell, v); comparable && order == 0 {
			return true
		}
	}

	return false
}

// NonMissing matches rows where every listed column carries an observed
// value. This is the only way a filter can express "field is present".
type NonMissing struct {
	Columns []string
}

func (n *NonMissing) Validate(schema map[string]Kind) error {
	var result *multierror.Error
	for _, col := range n.Columns {
		if _, ok := schema[col]; !ok {
			result = multierror.Append(result, &SchemaError{Column: col})
		}
	}
	return result.ErrorOrNil()
}

func (n *NonMissing) Match(row Row) bool {
	for _, col := range n.Columns {
		cell, ok := row.Field(col)
		if !ok || cell.Missing {
			return false
		}
	}
	return true
}

// And is the conjunction of its operands; an empty And matches everything.
type And struct {
	Exprs []Expr
}

func (a *And) Validate(schema map[string]Kind) error {
	var result *multierror.Error
	for _, expr := range a.Exprs {
		if err := expr.Validate(schema); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (a *And) Match(row Row) bool {
	for _, expr := range a.Exprs {
		if !expr.Match(row) {
			return false
		}
	}
	return true
}

// Or is the disjunction of its operands; an empty Or matches nothing.
type Or struct {
	Exprs []Expr
}

func (o *Or) Validate(schema map[string]Kind) error {
	var result *multierror.Error
	for _, expr := range o.Exprs {
		if err := expr.Validate(schema); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (o *Or) Match(row Row) bool {
	for _, expr := range o.Exprs {
		if expr.Match(row) {
			return true
		}
	}
	return false
}
