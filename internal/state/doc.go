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

// Package state persists the last-fetch timestamp that drives incremental
// note fetching.
//
// The store is a small spreadsheet workbook: a header cell followed by one
// data row whose first cell holds the timestamp. Only that cell is
// significant; the header text is ignored on read, so workbooks created by
// hand or by other tools are accepted as long as A2 holds a date/time.
//
// Timestamps have second precision and are written in the fixed layout
// "2006-01-02 15:04:05", which doubles as the path segment sent to the
// notes API. Every write replaces the whole workbook atomically using a
// write-to-temp-and-rename pattern.
//
// Example usage:
//
//	store := state.NewStore(afero.NewOsFs(), "config.xlsx")
//	since, err := store.ReadLastFetch()
//	if err != nil {
//	    return err
//	}
//	// ... fetch and export ...
//	err = store.WriteLastFetch(time.Now())
package state
