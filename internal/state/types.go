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

package state

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the serialized form of a last-fetch timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// HeaderName labels the timestamp column of a freshly written store.
const HeaderName = "LastFetchDate"

// timestampCell is the first cell of the first data row.
const timestampCell = "A2"

// acceptedLayouts lists the text layouts ParseTimestamp understands, tried in order.
var acceptedLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatTimestamp renders ts in TimestampLayout, dropping sub-second precision.
func FormatTimestamp(ts time.Time) string {
	return ts.Truncate(time.Second).Format(TimestampLayout)
}

// ParseTimestamp parses a stored or user-supplied timestamp. Layouts without
// a zone are interpreted in the local time zone.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date/time", value)
}
