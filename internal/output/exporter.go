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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

// Supported formats.
const (
	FormatXLSX   = "xlsx"
	FormatNDJSON = "ndjson"
)

// FileTimestampLayout is the generation time embedded in derived file names.
const FileTimestampLayout = "20060102_150405"

// DefaultPath derives the output path for topicIDs generated at the given
// time: {dir}/{ids joined by "_"}_notes_{YYYYMMDD_HHMMSS}.{format}.
func DefaultPath(dir string, topicIDs []string, format string, generatedAt time.Time) string {
	name := fmt.Sprintf("%s_notes_%s.%s", strings.Join(topicIDs, "_"), generatedAt.Format(FileTimestampLayout), format)
	return filepath.Join(dir, name)
}

// Exporter writes a complete set of rows as one output document.
type Exporter struct {
	fs     afero.Fs
	dir    string
	format string

	// Now supplies the generation time for derived paths. It is called once
	// per Export.
	Now func() time.Time
}

// NewExporter returns an Exporter writing format documents under dir.
func NewExporter(fs afero.Fs, dir, format string) *Exporter {
	return &Exporter{
		fs:     fs,
		dir:    dir,
		format: format,
		Now:    time.Now,
	}
}

// Export writes rows to path, or to DefaultPath when path is empty, and
// returns the path written. The destination directory must exist. Every
// failure wraps errors.ErrWrite and leaves no document behind.
func (e *Exporter) Export(rows []notes.Row, topicIDs []string, path string) (string, error) {
	if path == "" {
		path = DefaultPath(e.dir, topicIDs, e.format, e.Now())
	}

	w, err := e.open(path)
	if err != nil {
		return "", err
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = w.Close()
			_ = e.fs.Remove(path)
			return "", fmt.Errorf("%w: %s: %w", fetcherrors.ErrWrite, path, err)
		}
	}

	if err := w.Close(); err != nil {
		_ = e.fs.Remove(path)
		return "", fmt.Errorf("%w: %s: %w", fetcherrors.ErrWrite, path, err)
	}
	return path, nil
}

// open creates the destination file and wraps it in the configured format.
func (e *Exporter) open(path string) (RowWriter, error) {
	dir := filepath.Dir(path)
	info, err := e.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: output directory %s does not exist", fetcherrors.ErrWrite, dir)
		}
		return nil, fmt.Errorf("%w: %w", fetcherrors.ErrWrite, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", fetcherrors.ErrWrite, dir)
	}

	file, err := e.fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create output file: %w", fetcherrors.ErrWrite, err)
	}

	switch e.format {
	case FormatNDJSON:
		return newClosingWriter(file), nil
	case FormatXLSX:
		w, err := NewXLSXWriter(file)
		if err != nil {
			_ = file.Close()
			_ = e.fs.Remove(path)
			return nil, fmt.Errorf("%w: %w", fetcherrors.ErrWrite, err)
		}
		return w, nil
	default:
		_ = file.Close()
		_ = e.fs.Remove(path)
		return nil, fmt.Errorf("%w: unsupported output format %q", fetcherrors.ErrWrite, e.format)
	}
}
