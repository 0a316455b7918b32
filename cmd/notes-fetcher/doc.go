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

// Package main implements the notes-fetcher command-line interface.
// It pulls the notes that changed since the last run from the notes
// service, keeps the requested topics, and writes them to a spreadsheet
// (or NDJSON) document, then records when the run happened so the next
// one picks up where this one stopped.
//
// Usage:
//
//	notes-fetcher [topic-id...] [flags]
//	notes-fetcher state show
//	notes-fetcher state set <timestamp>
//	notes-fetcher version
//
// Example:
//
//	export API_BASE_URL=http://localhost:8000
//	notes-fetcher state set "2023-01-01 00:00:00"
//	notes-fetcher TDS BIO
//
// Exit codes:
//   - 0: Success
//   - 1: General error (bad response, invalid note, output not written)
//   - 2: Configuration error
//   - 3: Notes service unreachable or returned an error status
//   - 4: Fetch state missing, unreadable, or not saved
package main
