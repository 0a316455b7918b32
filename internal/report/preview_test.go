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
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain answer", "plain answer"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"line one<br>line two", "line one line two"},
		{"<div>  spaced\n\n out </div>", "spaced out"},
		{"<style>p{}</style>kept", "kept"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))

	got := Truncate("abcdefghij", 5)
	assert.True(t, strings.HasSuffix(got, ellipsis), "got %q", got)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 5)

	wide := Truncate("日本語のノート", 6)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 6, "wide runes count as two cells: %q", wide)
}

func TestWritePreview(t *testing.T) {
	rows := make([]notes.Row, 5)
	for i := range rows {
		rows[i] = notes.Row{TopicID: "TDS", Note: fmt.Sprintf("<p>note %d</p>", i)}
	}

	p, out, _ := newTestPrinter(ColorNever, false)
	require.NoError(t, WritePreview(p, rows, 2, 40))

	got := out.String()
	assert.Contains(t, got, "note 0")
	assert.Contains(t, got, "note 1")
	assert.NotContains(t, got, "note 2")
	assert.NotContains(t, got, "<p>")
	assert.Contains(t, got, "... 3 more")
}

func TestWritePreview_Disabled(t *testing.T) {
	rows := []notes.Row{{TopicID: "TDS", Note: "X"}}

	p, out, _ := newTestPrinter(ColorNever, false)
	require.NoError(t, WritePreview(p, rows, 0, 40))
	assert.Zero(t, out.Len())

	q, qout, _ := newTestPrinter(ColorNever, true)
	require.NoError(t, WritePreview(q, rows, 5, 40))
	assert.Zero(t, qout.Len())
}

func TestWritePreview_MoreThanAvailable(t *testing.T) {
	rows := []notes.Row{{TopicID: "TDS", Note: "only"}}

	p, out, _ := newTestPrinter(ColorNever, false)
	require.NoError(t, WritePreview(p, rows, 10, 40))
	assert.Contains(t, out.String(), "only")
	assert.NotContains(t, out.String(), "more")
}
