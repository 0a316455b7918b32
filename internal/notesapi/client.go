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

package notesapi

import (
	"context"
	"time"
)

// Client defines the interface for interacting with the notes service.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchNotes retrieves every note changed since the given time in one request.
	// Network failures and non-success statuses wrap errors.ErrTransport; a body
	// that is not the expected JSON document wraps errors.ErrDecode.
	FetchNotes(ctx context.Context, since time.Time) (*Response, error)
}
