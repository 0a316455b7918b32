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

// Package metadata provides functionality for tracking and persisting
// metadata about fetch runs. It records how many notes each topic produced,
// how many API calls were made, which timestamp was sent and which was
// persisted, and links each run to the one before it.
//
// Records are saved as JSON files named run-<ULID>.json. ULIDs sort by
// creation time, so the newest record is the lexically greatest name.
package metadata

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/fsutil"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notes"
)

const (
	filePrefix = "run-"
	fileSuffix = ".json"
)

// Tracker collects statistics during a fetch run. Create one at the start of
// each run and record activity on it as the run progresses. A Tracker is
// owned by a single run and is not safe for concurrent use.
type Tracker struct {
	startTime        time.Time
	apiCallCount     int
	topicsInResponse int
	notesByTopic     map[string]int
	totalNotes       int

	now func() time.Time
}

// New creates a tracker started at the current time.
func New() *Tracker {
	return NewWithClock(time.Now)
}

// NewWithClock creates a tracker that reads time from now.
func NewWithClock(now func() time.Time) *Tracker {
	return &Tracker{
		startTime:    now(),
		notesByTopic: make(map[string]int),
		now:          now,
	}
}

// IncrementAPICall records that a request was sent to the notes service.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordResponse records how many topics the service returned, selected or not.
func (t *Tracker) RecordResponse(topicCount int) {
	t.topicsInResponse = topicCount
}

// RecordRows adds the exported rows to the per-topic counts.
func (t *Tracker) RecordRows(rows []notes.Row) {
	for topic, n := range notes.CountByTopic(rows) {
		t.notesByTopic[topic] += n
		t.totalNotes += n
	}
}

// GenerateMetadata creates the record for a completed run. nextSince is the
// timestamp that was persisted; previous may be nil for a first run.
func (t *Tracker) GenerateMetadata(version string, params RunParams, nextSince time.Time, previous *RunRef) (*RunMetadata, error) {
	completedAt := t.now()

	id, err := ulid.New(ulid.Timestamp(t.startTime), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	byTopic := make(map[string]int, len(t.notesByTopic))
	for k, v := range t.notesByTopic {
		byTopic[k] = v
	}

	return &RunMetadata{
		FetcherVersion: version,
		RunID:          id.String(),
		Parameters:     params,
		Results: RunResults{
			TotalNotes:       t.totalNotes,
			NotesByTopic:     byTopic,
			TopicsInResponse: t.topicsInResponse,
			APICallCount:     t.apiCallCount,
			Duration:         completedAt.Sub(t.startTime).String(),
			StartedAt:        t.startTime,
			CompletedAt:      completedAt,
			NextSince:        nextSince,
		},
		PreviousRun: previous,
	}, nil
}

// FileName returns the name a record is saved under.
func FileName(runID string) string {
	return filePrefix + runID + fileSuffix
}

// SaveMetadata writes the record into dir atomically and returns its path.
// dir is created if missing.
func SaveMetadata(fs afero.Fs, metadata *RunMetadata, dir string) (string, error) {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	path := filepath.Join(dir, FileName(metadata.RunID))
	if err := fsutil.WriteFileAtomic(fs, path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("failed to save metadata: %w", err)
	}
	return path, nil
}

// LoadLatestMetadata loads the newest record in dir.
//
// Returns nil with no error when dir is missing or holds no records.
func LoadLatestMetadata(fs afero.Fs, dir string) (*RunMetadata, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check metadata directory: %w", err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if _, err := ulid.ParseStrict(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)); err != nil {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	latest := filepath.Join(dir, names[len(names)-1])

	data, err := afero.ReadFile(fs, latest)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var metadata RunMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", latest, err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata to w as indented JSON.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
