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
	"encoding/json"
	"time"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Response to return
	Response *Response

	// Error to return
	Error error

	// Track calls for verification
	CallCount int
	LastSince time.Time
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Response: SampleResponse(),
	}
}

// FetchNotes implements the Client interface
func (m *MockClient) FetchNotes(ctx context.Context, since time.Time) (*Response, error) {
	m.CallCount++
	m.LastSince = since

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Error != nil {
		return nil, m.Error
	}
	return m.Response, nil
}

// SampleResponse returns a response with two topics: "TDS" with an
// illustrated note and a plain note, and "OTHER" with one plain note.
func SampleResponse() *Response {
	return &Response{
		Topics: []Topic{
			{
				ID: "TDS",
				Notes: []json.RawMessage{
					json.RawMessage(`{"n_ans":"X","n_imgs":["i1"]}`),
					json.RawMessage(`{"n_ans":"Y"}`),
				},
			},
			{
				ID: "OTHER",
				Notes: []json.RawMessage{
					json.RawMessage(`{"n_ans":"Z"}`),
				},
			},
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithResponse sets the response to return
func WithResponse(resp *Response) MockClientOption {
	return func(m *MockClient) {
		m.Response = resp
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
