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

import "github.com/DeveloperDowny/notes-data-fetcher/internal/notes"

// RowWriter defines the interface for writing exported note rows.
// This abstraction lets the exporter switch formats without changing the
// pipeline.
type RowWriter interface {
	// Write writes a single row to the output.
	Write(row notes.Row) error

	// Count returns the number of rows written so far, excluding any header.
	Count() int

	// Close finalizes the document and releases any resources.
	// The document is only complete after Close returns nil.
	Close() error
}
