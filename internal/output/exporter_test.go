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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

var sampleRows = []notes.Row{
	{TopicID: "TDS", Note: "X", Images: "i1"},
	{TopicID: "TDS", Note: "Y"},
	{TopicID: "BIO", Note: "multi\nline", Images: "a.jpg, b.jpg"},
}

func TestDefaultPath(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	tests := []struct {
		name   string
		topics []string
		format string
		want   string
	}{
		{"single topic", []string{"TDS"}, FormatXLSX, filepath.Join("output", "TDS_notes_20240102_030405.xlsx")},
		{"two topics", []string{"TDS", "BIO"}, FormatXLSX, filepath.Join("output", "TDS_BIO_notes_20240102_030405.xlsx")},
		{"ndjson", []string{"TDS"}, FormatNDJSON, filepath.Join("output", "TDS_notes_20240102_030405.ndjson")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPath("output", tt.topics, tt.format, at))
		})
	}
}

func TestExporter_RoundTrip(t *testing.T) {
	for _, format := range []string{FormatXLSX, FormatNDJSON} {
		t.Run(format, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, fs.MkdirAll("output", 0o755))

			exp := NewExporter(fs, "output", format)
			exp.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }

			path, err := exp.Export(sampleRows, []string{"TDS", "BIO"}, "")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join("output", "TDS_BIO_notes_20240102_030405."+format), path)

			got, err := ReadRows(fs, path)
			require.NoError(t, err)
			assert.Equal(t, sampleRows, got)
		})
	}
}

func TestExporter_HeaderOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("output", 0o755))

	path, err := NewExporter(fs, "output", FormatXLSX).Export(nil, []string{"TDS"}, "")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists, "an empty result still produces a document")

	rows, err := ReadRows(fs, path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExporter_ExplicitPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("elsewhere", 0o755))

	want := filepath.Join("elsewhere", "custom.xlsx")
	path, err := NewExporter(fs, "output", FormatXLSX).Export(sampleRows[:1], []string{"TDS"}, want)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestExporter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fs     func() afero.Fs
		format string
	}{
		{
			name:   "missing directory",
			fs:     afero.NewMemMapFs,
			format: FormatXLSX,
		},
		{
			name: "read-only filesystem",
			fs: func() afero.Fs {
				base := afero.NewMemMapFs()
				_ = base.MkdirAll("output", 0o755)
				return afero.NewReadOnlyFs(base)
			},
			format: FormatXLSX,
		},
		{
			name: "unknown format",
			fs: func() afero.Fs {
				fs := afero.NewMemMapFs()
				_ = fs.MkdirAll("output", 0o755)
				return fs
			},
			format: "csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExporter(tt.fs(), "output", tt.format).Export(sampleRows, []string{"TDS"}, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, fetcherrors.ErrWrite), "error %v is not ErrWrite", err)
		})
	}
}

func TestExporter_DirectoryIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "output", []byte("x"), 0o644))

	_, err := NewExporter(fs, "output", FormatXLSX).Export(sampleRows, []string{"TDS"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcherrors.ErrWrite)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestExporter_RejectsCellsWorkbookCannotHold(t *testing.T) {
	tests := []struct {
		name string
		row  notes.Row
		want string
	}{
		{
			name: "note too long",
			row:  notes.Row{TopicID: "TDS", Note: strings.Repeat("a", excelize.TotalCellChars+1)},
			want: "at most",
		},
		{
			name: "control character",
			row:  notes.Row{TopicID: "TDS", Note: "a\x01b"},
			want: "U+0001",
		},
		{
			name: "invalid utf-8 in images",
			row:  notes.Row{TopicID: "TDS", Note: "ok", Images: "\xff"},
			want: "not valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, fs.MkdirAll("output", 0o755))
			path := filepath.Join("output", "TDS.xlsx")

			_, err := NewExporter(fs, "output", FormatXLSX).Export([]notes.Row{sampleRows[0], tt.row}, []string{"TDS"}, path)
			require.Error(t, err)
			assert.ErrorIs(t, err, fetcherrors.ErrWrite)
			assert.Contains(t, err.Error(), tt.want)

			exists, err := afero.Exists(fs, path)
			require.NoError(t, err)
			assert.False(t, exists, "a rejected export leaves no document")
		})
	}
}

func TestExporter_LongestCellRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("output", 0o755))

	row := notes.Row{TopicID: "TDS", Note: strings.Repeat("é", excelize.TotalCellChars), Images: "i1"}
	path, err := NewExporter(fs, "output", FormatXLSX).Export([]notes.Row{row}, []string{"TDS"}, "")
	require.NoError(t, err)

	got, err := ReadRows(fs, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, row.Note, got[0].Note)
}

// closeFailFs hands out files whose Close reports an error.
type closeFailFs struct{ afero.Fs }

func (f closeFailFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return closeFailFile{file}, nil
}

type closeFailFile struct{ afero.File }

func (f closeFailFile) Close() error {
	_ = f.File.Close()
	return errors.New("disk full")
}

func TestExporter_CloseFailureRemovesDocument(t *testing.T) {
	for _, format := range []string{FormatXLSX, FormatNDJSON} {
		t.Run(format, func(t *testing.T) {
			base := afero.NewMemMapFs()
			require.NoError(t, base.MkdirAll("output", 0o755))
			path := filepath.Join("output", "TDS."+format)

			_, err := NewExporter(closeFailFs{base}, "output", format).Export(sampleRows, []string{"TDS"}, path)
			require.Error(t, err)
			assert.ErrorIs(t, err, fetcherrors.ErrWrite)

			exists, err := afero.Exists(base, path)
			require.NoError(t, err)
			assert.False(t, exists, "a failed export leaves no document")
		})
	}
}
