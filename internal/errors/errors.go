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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrConfiguration indicates a required setting (such as the API base URL) is missing or invalid.
	// Maps to exit code 2.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrStateUnavailable indicates the last-fetch state could not be read:
	// the store is missing, empty, or holds a value that is not a date/time.
	// Maps to exit code 4.
	ErrStateUnavailable = errors.New("fetch state unavailable")

	// ErrStatePersist indicates the new last-fetch timestamp could not be written.
	// Maps to exit code 4.
	ErrStatePersist = errors.New("failed to persist fetch state")

	// ErrTransport indicates the notes request failed on the network or returned a non-success status.
	// Maps to exit code 3.
	ErrTransport = errors.New("notes request failed")

	// ErrDecode indicates the response body is not the expected JSON document.
	// Maps to exit code 1.
	ErrDecode = errors.New("failed to decode notes response")

	// ErrInvalidNoteRecord indicates a note record in a selected topic lacks its answer text.
	// Maps to exit code 1.
	ErrInvalidNoteRecord = errors.New("invalid note record")

	// ErrWrite indicates the output document could not be written.
	// Maps to exit code 1.
	ErrWrite = errors.New("failed to write output")
)

