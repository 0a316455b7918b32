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

// Package notesapi provides a client for the remote notes service. It issues
// the single "notes changed since" request a run needs and decodes the
// response into topics whose note records are kept raw, so that callers can
// decide which records to validate.
//
// The package includes:
//   - A Client interface for fetching notes
//   - An HTTP implementation on net/http
//   - Mock client for testing
//   - Type definitions for the response document
//
// Basic usage:
//
//	client := notesapi.NewHTTPClient("https://notes.example.com", "notes-fetcher/dev")
//	resp, err := client.FetchNotes(ctx, since)
//	if err != nil {
//	    // Handle error
//	}
//	for _, topic := range resp.Topics {
//	    // Process topic.ID and topic.Notes
//	}
package notesapi
