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

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notesapi"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/output"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/state"
)

var (
	lastFetch = time.Date(2023, 1, 1, 12, 0, 0, 0, time.Local)
	beforeRun = time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	afterRun  = time.Date(2024, 3, 1, 9, 0, 7, 0, time.Local)
)

type fakeState struct {
	ts       time.Time
	readErr  error
	writeErr error
	reads    int
	writes   []time.Time
}

func (f *fakeState) ReadLastFetch() (time.Time, error) {
	f.reads++
	return f.ts, f.readErr
}

func (f *fakeState) WriteLastFetch(ts time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, ts)
	f.ts = ts
	return nil
}

type fakeExporter struct {
	err     error
	calls   int
	rows    []notes.Row
	topics  []string
	written bool
}

func (f *fakeExporter) Export(rows []notes.Row, topicIDs []string, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.rows = rows
	f.topics = topicIDs
	f.written = true
	if path == "" {
		path = "output/derived.xlsx"
	}
	return path, nil
}

// newTestRunner returns a runner whose clock reports afterRun only once the
// exporter has written its document.
func newTestRunner(st *fakeState, client notesapi.Client, exp *fakeExporter) *Runner {
	r := NewRunner(st, client, exp, nil)
	r.Now = func() time.Time {
		if exp.written {
			return afterRun
		}
		return beforeRun
	}
	return r
}

func TestRun_Scenario(t *testing.T) {
	st := &fakeState{ts: lastFetch}
	client := notesapi.NewMockClient()
	exp := &fakeExporter{}

	res, err := newTestRunner(st, client, exp).Run(context.Background(), []string{"TDS"}, "")
	require.NoError(t, err)

	assert.Equal(t, StageDone, res.Stage)
	assert.Equal(t, 1, client.CallCount)
	assert.True(t, client.LastSince.Equal(lastFetch), "fetch since = %v, want %v", client.LastSince, lastFetch)

	want := []notes.Row{
		{TopicID: "TDS", Note: "X", Images: "i1"},
		{TopicID: "TDS", Note: "Y", Images: ""},
	}
	assert.Equal(t, want, exp.rows)
	assert.Equal(t, want, res.Rows)
	assert.Equal(t, []string{"TDS"}, exp.topics)
	assert.Equal(t, "output/derived.xlsx", res.OutputPath)
	assert.Equal(t, 2, res.TopicsInResponse)

	require.Len(t, st.writes, 1)
	assert.True(t, st.writes[0].Equal(afterRun), "persisted %v, want the time after the write", st.writes[0])
	assert.True(t, res.NextSince.Equal(afterRun))
	assert.True(t, res.Since.Equal(lastFetch))
}

func TestRun_ExplicitOutputPath(t *testing.T) {
	exp := &fakeExporter{}
	res, err := newTestRunner(&fakeState{ts: lastFetch}, notesapi.NewMockClient(), exp).
		Run(context.Background(), []string{"TDS"}, "custom.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "custom.xlsx", res.OutputPath)
}

func TestRun_NoMatches(t *testing.T) {
	st := &fakeState{ts: lastFetch}
	exp := &fakeExporter{}

	res, err := newTestRunner(st, notesapi.NewMockClient(), exp).Run(context.Background(), []string{"NONE"}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, exp.calls, "an empty result is still written")
	assert.Empty(t, res.Rows)
	assert.Len(t, st.writes, 1, "an empty result still advances the state")
}

func TestRun_StateReadFailureSkipsFetch(t *testing.T) {
	st := &fakeState{readErr: fetcherrors.ErrStateUnavailable}
	client := notesapi.NewMockClient()
	exp := &fakeExporter{}

	_, err := newTestRunner(st, client, exp).Run(context.Background(), []string{"TDS"}, "")
	require.Error(t, err)

	assert.ErrorIs(t, err, fetcherrors.ErrStateUnavailable)
	assert.Equal(t, 0, client.CallCount, "fetch must not run without state")
	assert.Equal(t, 0, exp.calls)
	assert.Empty(t, st.writes)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageReadState, stageErr.Stage)
}

func TestRun_FailuresAbortLaterStages(t *testing.T) {
	badNote := &notesapi.Response{Topics: []notesapi.Topic{
		{ID: "TDS", Notes: []json.RawMessage{json.RawMessage(`{"n_imgs":["a"]}`)}},
	}}

	tests := []struct {
		name        string
		client      *notesapi.MockClient
		exportErr   error
		wantErr     error
		wantStage   Stage
		wantExports int
	}{
		{
			name:        "transport",
			client:      notesapi.NewMockClientWithOptions(notesapi.WithError(fetcherrors.ErrTransport)),
			wantErr:     fetcherrors.ErrTransport,
			wantStage:   StageFetch,
			wantExports: 0,
		},
		{
			name:        "decode",
			client:      notesapi.NewMockClientWithOptions(notesapi.WithError(fetcherrors.ErrDecode)),
			wantErr:     fetcherrors.ErrDecode,
			wantStage:   StageFetch,
			wantExports: 0,
		},
		{
			name:        "invalid note",
			client:      notesapi.NewMockClientWithOptions(notesapi.WithResponse(badNote)),
			wantErr:     fetcherrors.ErrInvalidNoteRecord,
			wantStage:   StageExtractAndWrite,
			wantExports: 0,
		},
		{
			name:        "write",
			client:      notesapi.NewMockClient(),
			exportErr:   fetcherrors.ErrWrite,
			wantErr:     fetcherrors.ErrWrite,
			wantStage:   StageExtractAndWrite,
			wantExports: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeState{ts: lastFetch}
			exp := &fakeExporter{err: tt.exportErr}

			_, err := newTestRunner(st, tt.client, exp).Run(context.Background(), []string{"TDS"}, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tt.wantStage, stageErr.Stage)
			assert.Equal(t, tt.wantExports, exp.calls)
			assert.Empty(t, st.writes, "state must not advance after a failure")
			assert.True(t, st.ts.Equal(lastFetch))
		})
	}
}

func TestRun_PersistFailureKeepsOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("output", 0o755))

	base := afero.NewMemMapFs()
	require.NoError(t, state.NewStore(base, "config.xlsx").WriteLastFetch(lastFetch))
	store := state.NewStore(afero.NewReadOnlyFs(base), "config.xlsx")

	exporter := output.NewExporter(fs, "output", output.FormatXLSX)
	r := NewRunner(store, notesapi.NewMockClient(), exporter, nil)

	_, err := r.Run(context.Background(), []string{"TDS"}, filepath.Join("output", "TDS.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcherrors.ErrStatePersist)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StagePersistState, stageErr.Stage)

	rows, err := output.ReadRows(fs, filepath.Join("output", "TDS.xlsx"))
	require.NoError(t, err)
	assert.Len(t, rows, 2, "output stays on disk")

	got, err := state.NewStore(base, "config.xlsx").ReadLastFetch()
	require.NoError(t, err)
	assert.True(t, got.Equal(lastFetch), "state must not advance")
}

func TestRun_EndToEndWithRealStores(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("output", 0o755))
	store := state.NewStore(fs, "config.xlsx")
	require.NoError(t, store.WriteLastFetch(lastFetch))

	exporter := output.NewExporter(fs, "output", output.FormatXLSX)
	r := NewRunner(store, notesapi.NewMockClient(), exporter, nil)
	r.Now = func() time.Time { return afterRun }
	exporter.Now = r.Now

	res, err := r.Run(context.Background(), []string{"TDS", "OTHER"}, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "TDS_OTHER_notes_20240301_090007.xlsx"), res.OutputPath)

	rows, err := output.ReadRows(fs, res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, []notes.Row{
		{TopicID: "TDS", Note: "X", Images: "i1"},
		{TopicID: "TDS", Note: "Y"},
		{TopicID: "OTHER", Note: "Z"},
	}, rows)

	got, err := store.ReadLastFetch()
	require.NoError(t, err)
	assert.True(t, got.Equal(afterRun))

	meta, err := res.Metadata("test", output.FormatXLSX, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"TDS", "OTHER"}, meta.Parameters.Topics)
	assert.Equal(t, res.OutputPath, meta.Parameters.OutputPath)
	assert.True(t, meta.Results.NextSince.Equal(afterRun))
	assert.Equal(t, 3, meta.Results.TotalNotes)
	assert.Equal(t, 1, meta.Results.APICallCount)
}

func TestStage_String(t *testing.T) {
	for stage, want := range map[Stage]string{
		StageReadState:       "read-state",
		StageFetch:           "fetch",
		StageExtractAndWrite: "extract-and-write",
		StagePersistState:    "persist-state",
		StageDone:            "done",
		StageFailed:          "failed",
		Stage(99):            "unknown",
	} {
		assert.Equal(t, want, stage.String())
	}
}
