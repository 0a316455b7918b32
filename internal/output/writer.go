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
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// Writer handles streaming NDJSON output to a file or io.Writer.
// Each row becomes one JSON object with topic_id, note and images keys.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{
		output:  w,
		encoder: enc,
	}
}

// newClosingWriter is NewWriter for an output that must be closed with the writer.
func newClosingWriter(w io.WriteCloser) *Writer {
	writer := NewWriter(w)
	writer.closeFunc = w.Close
	return writer
}

// Write writes a single row as NDJSON.
func (w *Writer) Write(row notes.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of rows written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		closeFunc := w.closeFunc
		w.closeFunc = nil
		return closeFunc()
	}
	return nil
}
