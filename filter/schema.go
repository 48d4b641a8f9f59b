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
package filter

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SchemaError reports a filter or projection referencing a column the source
// does not declare, an operand whose type disagrees with the column, or a
// projection dropping a column the source cannot load without. It is fatal
// for the run and is raised before any row is read.
type SchemaError struct {
	Source       string
	Column       string
	KindMismatch bool
	Dropped      bool
}

func (err *SchemaError) Error() string {
	where := err.Column
	if err.Source != "" {
		where = fmt.Sprintf("%s.%s", err.Source, err.Column)
	}
	if err.KindMismatch {
		return fmt.Sprintf("schema error: operand type does not match column %s", where)
	}
	if err.Dropped {
		return fmt.Sprintf("schema error: projection cannot drop required column %s", where)
	}
	return fmt.Sprintf("schema error: unknown column %s", where)
}

// Projection is the ordered list of columns a stage retains. Columns outside
// the projection load as missing values downstream.
type Projection []string

func (p Projection) Validate(schema map[string]Kind) error {
	var result *multierror.Error
	for _, col := range p {
		if _, ok := schema[col]; !ok {
			result = multierror.Append(result, &SchemaError{Column: col})
		}
	}
	return result.ErrorOrNil()
}

// Keeps reports whether the projection retains the column. An empty
// projection retains every column.
func (p Projection) Keeps(column string) bool {
	if len(p) == 0 {
		return true
	}
	for _, col := range p {
		if col == column {
			return true
		}
	}
	return false
}
