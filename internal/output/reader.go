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

package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// ReadRows loads an exported document back into rows, choosing the format
// from the file extension. The header row of a workbook is skipped.
func ReadRows(fs afero.Fs, path string) ([]notes.Row, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case FormatNDJSON:
		var rows []notes.Row
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "" {
				continue
			}
			var row notes.Row
			if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
				return nil, fmt.Errorf("invalid line in %s: %w", path, err)
			}
			rows = append(rows, row)
		}
		return rows, scanner.Err()
	default:
		book, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		defer book.Close()

		cells, err := book.GetRows(book.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
		}

		var rows []notes.Row
		for i, r := range cells {
			if i == 0 {
				continue
			}
			rows = append(rows, notes.Row{TopicID: cell(r, 0), Note: cell(r, 1), Images: cell(r, 2)})
		}
		return rows, nil
	}
}

// cell returns r[i], or "" where GetRows trimmed trailing empty cells.
func cell(r []string, i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}
