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
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/fsutil"
)

// Store reads and writes the last-fetch timestamp workbook.
// It is not safe for concurrent writers; a single run owns it.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a Store backed by the workbook at path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the workbook location.
func (s *Store) Path() string {
	return s.path
}

// ReadLastFetch returns the stored timestamp. A missing, empty, unreadable
// or unparseable store is reported as errors.ErrStateUnavailable.
func (s *Store) ReadLastFetch() (time.Time, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: no previous fetch state found at %s. Use 'state set' to create it",
				fetcherrors.ErrStateUnavailable, s.path)
		}
		return time.Time{}, fmt.Errorf("%w: failed to open %s: %w", fetcherrors.ErrStateUnavailable, s.path, err)
	}
	defer file.Close()

	book, err := excelize.OpenReader(file)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s is not a readable workbook: %w", fetcherrors.ErrStateUnavailable, s.path, err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	if sheet == "" {
		return time.Time{}, fmt.Errorf("%w: %s has no sheets", fetcherrors.ErrStateUnavailable, s.path)
	}

	raw, err := book.GetCellValue(sheet, timestampCell, excelize.Options{RawCellValue: true})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to read %s!%s: %w", fetcherrors.ErrStateUnavailable, sheet, timestampCell, err)
	}
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("%w: %s holds no timestamp", fetcherrors.ErrStateUnavailable, s.path)
	}

	ts, err := parseCell(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", fetcherrors.ErrStateUnavailable, s.path, err)
	}
	return ts, nil
}

// WriteLastFetch replaces the store with a single record holding ts.
// Any failure is reported as errors.ErrStatePersist.
func (s *Store) WriteLastFetch(ts time.Time) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	if err := book.SetCellValue(sheet, "A1", HeaderName); err != nil {
		return fmt.Errorf("%w: %w", fetcherrors.ErrStatePersist, err)
	}
	if err := book.SetCellValue(sheet, timestampCell, FormatTimestamp(ts)); err != nil {
		return fmt.Errorf("%w: %w", fetcherrors.ErrStatePersist, err)
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return fmt.Errorf("%w: failed to encode workbook: %w", fetcherrors.ErrStatePersist, err)
	}

	if err := fsutil.WriteFileAtomic(s.fs, s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", fetcherrors.ErrStatePersist, err)
	}
	return nil
}

// parseCell accepts either text in one of the known layouts or a numeric
// Excel date serial, as written by spreadsheet tools for date cells.
func parseCell(raw string) (time.Time, error) {
	if ts, err := ParseTimestamp(raw); err == nil {
		return ts, nil
	}

	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a date/time", raw)
	}
	utc, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot convert serial %v to a date/time: %w", serial, err)
	}
	utc = utc.Round(time.Second)

	// Serials carry wall-clock time with no zone.
	return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, time.Local), nil
}
