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
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// DefaultPreviewWidth bounds the note column of a preview.
const DefaultPreviewWidth = 60

const ellipsis = "…"

// PlainText strips markup from a note and collapses whitespace. Text that
// fails to parse as HTML is returned with whitespace collapsed.
func PlainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script,style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate shortens s to at most width display cells, counting wide runes
// as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// WritePreview prints the first n rows as plain text. n <= 0 prints nothing.
func WritePreview(p *Printer, rows []notes.Row, n, width int) error {
	if p.IsQuiet() || n <= 0 {
		return nil
	}
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	if n > len(rows) {
		n = len(rows)
	}

	p.Header("Preview")
	table := NewTable(p.Out(), []string{"Topic", "Note", "Images"})
	for _, row := range rows[:n] {
		table.AddRow(row.TopicID, Truncate(PlainText(row.Note), width), Truncate(row.Images, width/2))
	}
	if err := table.Render(); err != nil {
		return err
	}
	if n < len(rows) {
		p.Print("%s", p.Dim(fmt.Sprintf("... %d more", len(rows)-n)))
	}
	return nil
}
