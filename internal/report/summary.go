// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"strconv"
	"time"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// TimestampLayout is how fetch timestamps are shown to the user.
const TimestampLayout = "2006-01-02 15:04:05"

// Summary is what a completed run reports.
type Summary struct {
	Topics     []string
	Rows       []notes.Row
	Since      time.Time
	NextSince  time.Time
	OutputPath string
}

// WriteSummary prints the per-topic counts for every requested topic, in
// request order, followed by the output location and the next since value.
func WriteSummary(p *Printer, s Summary) error {
	if p.IsQuiet() {
		return nil
	}

	counts := notes.CountByTopic(s.Rows)

	p.Header("Fetched notes since " + s.Since.Format(TimestampLayout))
	table := NewTable(p.Out(), []string{"Topic", "Notes"})
	seen := make(map[string]bool, len(s.Topics))
	for _, topic := range s.Topics {
		if seen[topic] {
			continue
		}
		seen[topic] = true
		table.AddRow(topic, strconv.Itoa(counts[topic]))
	}
	table.AddRow(p.Bold("Total"), p.Bold(strconv.Itoa(len(s.Rows))))
	if err := table.Render(); err != nil {
		return err
	}

	p.Print("")
	if len(s.Rows) == 0 {
		p.Info("No notes matched the selected topics")
	}
	p.Success("Wrote %d notes to %s", len(s.Rows), s.OutputPath)
	p.Print("Next fetch since %s", p.Dim(s.NextSince.Format(TimestampLayout)))
	return nil
}
