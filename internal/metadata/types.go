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

// Package metadata types define the structures recorded for each fetch run.
// A record captures what was requested, what came back, and where it was
// written, so past runs can be audited without re-reading their output.
package metadata

import (
	"time"
)

// RunMetadata is the complete record of a single successful fetch run.
type RunMetadata struct {
	FetcherVersion string     `json:"fetcher_version"`
	RunID          string     `json:"run_id"`
	Parameters     RunParams  `json:"parameters"`
	Results        RunResults `json:"results"`
	PreviousRun    *RunRef    `json:"previous_run,omitempty"`
}

// RunParams captures the inputs of a run: the selected topics, the
// timestamp sent to the service, and the document that was produced.
type RunParams struct {
	Topics       []string  `json:"topics"`
	Since        time.Time `json:"since"`
	OutputPath   string    `json:"output_path"`
	OutputFormat string    `json:"output_format"`
}

// RunResults holds the counts and timings of a run. NextSince is the
// timestamp persisted to the state store at the end of the run.
type RunResults struct {
	TotalNotes       int            `json:"total_notes"`
	NotesByTopic     map[string]int `json:"notes_by_topic"`
	TopicsInResponse int            `json:"topics_in_response"`
	APICallCount     int            `json:"api_calls_made"`
	Duration         string         `json:"run_duration"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      time.Time      `json:"completed_at"`
	NextSince        time.Time      `json:"next_since"`
}

// RunRef links a run to its predecessor.
type RunRef struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Ref returns a reference to m suitable for the next run's PreviousRun.
func (m *RunMetadata) Ref() *RunRef {
	if m == nil {
		return nil
	}
	return &RunRef{RunID: m.RunID, CompletedAt: m.Results.CompletedAt}
}
