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
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
)

// TimestampLayout is how the since parameter is written into the request path.
const TimestampLayout = "2006-01-02 15:04:05"

// notesPath is the endpoint prefix; the since timestamp and the fixed
// "False" flag follow it as path segments.
const notesPath = "/get_notes_ankiconnect/"

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 512

// HTTPClient implements Client against the notes REST endpoint. It performs
// exactly one GET per call: no retries, no pagination, and no timeout beyond
// what the underlying transport imposes.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the service rooted at baseURL.
// A trailing slash on baseURL is ignored.
func NewHTTPClient(baseURL, userAgent string) *HTTPClient {
	return NewHTTPClientWithTransport(baseURL, userAgent, nil)
}

// NewHTTPClientWithTransport is NewHTTPClient with a custom base transport.
// A nil transport means http.DefaultTransport.
func NewHTTPClientWithTransport(baseURL, userAgent string, base http.RoundTripper) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: newHeaderTransport(userAgent, base),
		},
	}
}

// NotesURL returns the request URL for notes changed since the given time.
// The timestamp is embedded as-is; net/http escapes the space on the wire.
func (c *HTTPClient) NotesURL(since time.Time) string {
	return c.baseURL + notesPath + since.Format(TimestampLayout) + "/False"
}

// FetchNotes implements Client.
func (c *HTTPClient) FetchNotes(ctx context.Context, since time.Time) (*Response, error) {
	endpoint := c.NotesURL(since)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request URL %s: %w", fetcherrors.ErrTransport, endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: GET %s returned %s: %s",
			fetcherrors.ErrTransport, endpoint, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out Response
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fetcherrors.ErrDecode, endpoint, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: unexpected data after the JSON document", fetcherrors.ErrDecode, endpoint)
	}

	return &out, nil
}

// mapTransportError adds an actionable hint for connection-level failures.
func mapTransportError(err error, endpoint string) error {
	var netErr net.Error
	var dnsErr *net.DNSError
	var opErr *net.OpError

	switch {
	case errors.As(err, &dnsErr):
		return fmt.Errorf("%w: cannot resolve host for %s. Check API_BASE_URL: %w", fetcherrors.ErrTransport, endpoint, err)
	case errors.As(err, &opErr):
		return fmt.Errorf("%w: cannot connect to %s. Is the notes service running?: %w", fetcherrors.ErrTransport, endpoint, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: request to %s timed out: %w", fetcherrors.ErrTransport, endpoint, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", fetcherrors.ErrTransport, err)
	}
	return fmt.Errorf("%w: GET %s: %w", fetcherrors.ErrTransport, endpoint, err)
}
