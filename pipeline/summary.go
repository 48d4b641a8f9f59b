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
package pipeline

import (
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/factorlab/panelkit/data"
)

// SummaryMarkdown renders a run summary as a markdown report suitable for
// terminal display.
func SummaryMarkdown(summary *data.RunSummary) string {
	p := message.NewPrinter(language.English)
	var sb strings.Builder

	sb.WriteString(p.Sprintf("# Panel Build %s\n\n", summary.RunID.String()))
	sb.WriteString(p.Sprintf("- Status: **%s**\n", summary.Status))
	sb.WriteString(p.Sprintf("- Started: %s\n", timeago.English.Format(summary.StartTime)))
	sb.WriteString(p.Sprintf("- Duration: %s\n\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond)))

	sb.WriteString("## Output\n\n")
	sb.WriteString(p.Sprintf("- Firms: %d\n", summary.NumFirms))
	sb.WriteString(p.Sprintf("- Panel rows: %d\n\n", summary.NumRows))

	sb.WriteString("## Diagnostics\n\n")
	sb.WriteString(p.Sprintf("- Ambiguous tickers excluded: %d\n", summary.AmbiguousLinks))
	sb.WriteString(p.Sprintf("- Links rejected by score: %d\n", summary.RejectedLinks))
	sb.WriteString(p.Sprintf("- Rows with no price in window: %d\n", summary.NoPriceMatch))
	sb.WriteString(p.Sprintf("- Rows with missing ratio operands: %d\n", summary.MissingOperands))

	return sb.String()
}
