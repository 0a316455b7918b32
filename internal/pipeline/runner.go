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
	"log/slog"
	"time"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/logging"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/metadata"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notesapi"
)

// StateStore holds the last-fetch timestamp between runs.
type StateStore interface {
	ReadLastFetch() (time.Time, error)
	WriteLastFetch(ts time.Time) error
}

// Exporter writes the extracted rows as one document and returns its path.
// An empty path asks the exporter to derive one.
type Exporter interface {
	Export(rows []notes.Row, topicIDs []string, path string) (string, error)
}

// Runner wires the stages of a run together. Now is read when the output
// document has been written; the value becomes the next run's since.
type Runner struct {
	State    StateStore
	Client   notesapi.Client
	Exporter Exporter
	Logger   *slog.Logger
	Now      func() time.Time
}

// Result describes a completed run.
type Result struct {
	Stage            Stage
	Topics           []string
	Since            time.Time
	NextSince        time.Time
	OutputPath       string
	Rows             []notes.Row
	TopicsInResponse int
	Tracker          *metadata.Tracker
}

// NewRunner creates a Runner using the wall clock. A nil logger discards.
func NewRunner(state StateStore, client notesapi.Client, exporter Exporter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		State:    state,
		Client:   client,
		Exporter: exporter,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Run executes one pass for topicIDs. outputPath may be empty to let the
// exporter derive the file name. Failures are returned as *StageError.
func (r *Runner) Run(ctx context.Context, topicIDs []string, outputPath string) (*Result, error) {
	tracker := metadata.NewWithClock(r.Now)
	res := &Result{Topics: topicIDs, Tracker: tracker}
	log := r.Logger.With("topics", topicIDs)

	// Read state
	log.Debug("reading fetch state")
	since, err := r.State.ReadLastFetch()
	if err != nil {
		return nil, r.fail(log, StageReadState, err)
	}
	res.Since = since
	log.Info("loaded fetch state", "since", since.Format(notesapi.TimestampLayout))

	// Fetch
	tracker.IncrementAPICall()
	resp, err := r.Client.FetchNotes(ctx, since)
	if err != nil {
		return nil, r.fail(log, StageFetch, err)
	}
	res.TopicsInResponse = len(resp.Topics)
	tracker.RecordResponse(res.TopicsInResponse)
	log.Info("fetched notes", "topics_in_response", res.TopicsInResponse, "notes_in_response", resp.NoteCount())

	// Extract and write
	rows, err := notes.Extract(resp, notes.NewTopicSet(topicIDs...))
	if err != nil {
		return nil, r.fail(log, StageExtractAndWrite, err)
	}
	if len(rows) == 0 {
		log.Info("no notes matched the selected topics")
	}
	path, err := r.Exporter.Export(rows, topicIDs, outputPath)
	if err != nil {
		return nil, r.fail(log, StageExtractAndWrite, err)
	}
	res.Rows = rows
	res.OutputPath = path
	tracker.RecordRows(rows)
	log.Info("wrote notes", "rows", len(rows), "path", path)

	// Persist state
	next := r.Now()
	if err := r.State.WriteLastFetch(next); err != nil {
		log.Warn("output was written but fetch state was not advanced; the next run will fetch the same window", "path", path)
		return nil, r.fail(log, StagePersistState, err)
	}
	res.NextSince = next
	res.Stage = StageDone
	log.Info("advanced fetch state", "next_since", next.Format(notesapi.TimestampLayout))

	return res, nil
}

func (r *Runner) fail(log *slog.Logger, stage Stage, err error) error {
	log.Error("run failed", "stage", stage.String(), "error", err)
	return &StageError{Stage: stage, Err: err}
}

// Metadata builds the run record for a completed run.
func (res *Result) Metadata(version, format string, previous *metadata.RunRef) (*metadata.RunMetadata, error) {
	params := metadata.RunParams{
		Topics:       res.Topics,
		Since:        res.Since,
		OutputPath:   res.OutputPath,
		OutputFormat: format,
	}
	return res.Tracker.GenerateMetadata(version, params, res.NextSince, previous)
}
