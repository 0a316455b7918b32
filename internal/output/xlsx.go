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

package output

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// SheetName is the worksheet that holds exported rows.
const SheetName = "Notes"

// XLSXWriter streams rows into a single-sheet workbook. The first row is
// notes.Header. The workbook is serialized to the destination on Close.
type XLSXWriter struct {
	mu     sync.Mutex
	dest   io.WriteCloser
	book   *excelize.File
	stream *excelize.StreamWriter
	row    int
	count  int
	closed bool
}

// NewXLSXWriter starts a workbook that will be written to dest on Close.
// dest is closed by Close.
func NewXLSXWriter(dest io.WriteCloser) (*XLSXWriter, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName(book.GetSheetName(0), SheetName); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	stream, err := book.NewStreamWriter(SheetName)
	if err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("failed to start sheet stream: %w", err)
	}

	w := &XLSXWriter{
		dest:   dest,
		book:   book,
		stream: stream,
		row:    1,
	}
	if err := w.setRow(notes.Header); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// Write appends one row.
func (w *XLSXWriter) Write(row notes.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("write to closed workbook")
	}
	values := row.Values()
	for i, v := range values {
		if err := checkCell(v); err != nil {
			return fmt.Errorf("column %s: %w", notes.Header[i], err)
		}
	}
	if err := w.setRow(values); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.count++
	return nil
}

// setRow writes cells at the next free row. Callers hold mu.
func (w *XLSXWriter) setRow(cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := w.stream.SetRow(cell, values); err != nil {
		return err
	}
	w.row++
	return nil
}

// Count returns the number of rows written, excluding the header.
func (w *XLSXWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes the sheet, serializes the workbook to the destination and
// closes it. Calling Close more than once is a no-op.
func (w *XLSXWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	defer w.book.Close()

	if err := w.stream.Flush(); err != nil {
		_ = w.dest.Close()
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := w.book.Write(w.dest); err != nil {
		_ = w.dest.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := w.dest.Close(); err != nil {
		return fmt.Errorf("failed to close workbook file: %w", err)
	}
	return nil
}

// checkCell rejects values a workbook cannot hold unchanged: excelize
// truncates cells past TotalCellChars and replaces characters XML 1.0
// cannot represent.
func checkCell(v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("cell is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
		return fmt.Errorf("cell has %d characters, workbook cells hold at most %d", n, excelize.TotalCellChars)
	}
	for i, r := range v {
		if !xmlChar(r) {
			return fmt.Errorf("cell holds character %U at byte %d that a workbook cannot store", r, i)
		}
	}
	return nil
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
