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

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/output"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/state"
)

// WriteStateFile creates a state workbook at path holding ts.
func WriteStateFile(t *testing.T, path string, ts time.Time) {
	t.Helper()

	if err := state.NewStore(afero.NewOsFs(), path).WriteLastFetch(ts); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}
}

// ReadStateFile returns the timestamp stored in the workbook at path.
func ReadStateFile(t *testing.T, path string) time.Time {
	t.Helper()

	ts, err := state.NewStore(afero.NewOsFs(), path).ReadLastFetch()
	if err != nil {
		t.Fatalf("Failed to read state file: %v", err)
	}
	return ts
}

// ReadOutputRows loads the rows of an exported document.
func ReadOutputRows(t *testing.T, path string) []notes.Row {
	t.Helper()

	rows, err := output.ReadRows(afero.NewOsFs(), path)
	if err != nil {
		t.Fatalf("Failed to read output %s: %v", path, err)
	}
	return rows
}

// OutputFiles lists the files in dir matching pattern.
func OutputFiles(t *testing.T, dir, pattern string) []string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}
	return files
}

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Expected file to not exist: %s", path)
	}
}
