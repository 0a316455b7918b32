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

package notes

import (
	"fmt"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/notesapi"
)

// Row is one exported note: its topic, its text verbatim, and the image
// references joined for display.
type Row struct {
	TopicID string `json:"topic_id"`
	Note    string `json:"note"`
	Images  string `json:"images"`
}

// Header names the columns of an exported document.
var Header = []string{"topic_id", "note", "images"}

// Values returns the row's cells in Header order.
func (r Row) Values() []string {
	return []string{r.TopicID, r.Note, r.Images}
}

// TopicSet is a set of topic identifiers. Membership is exact and
// case-sensitive.
type TopicSet map[string]struct{}

// NewTopicSet builds a set from ids.
func NewTopicSet(ids ...string) TopicSet {
	set := make(TopicSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set.
func (s TopicSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Extract flattens the notes of every selected topic into rows, keeping the
// response order of topics and of notes within each topic. Unselected topics
// are skipped without inspecting their notes. An invalid note in a selected
// topic aborts extraction with an error wrapping errors.ErrInvalidNoteRecord.
func Extract(resp *notesapi.Response, topics TopicSet) ([]Row, error) {
	rows := make([]Row, 0)
	if resp == nil || len(topics) == 0 {
		return rows, nil
	}

	for _, topic := range resp.Topics {
		if !topics.Contains(topic.ID) {
			continue
		}
		for i, raw := range topic.Notes {
			note, err := DecodeNote(raw)
			if err != nil {
				return nil, fmt.Errorf("topic %q note %d: %w", topic.ID, i, err)
			}
			rows = append(rows, Row{
				TopicID: topic.ID,
				Note:    note.Text,
				Images:  note.ImageDisplay(),
			})
		}
	}

	return rows, nil
}

// CountByTopic returns the number of rows per topic identifier.
func CountByTopic(rows []Row) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.TopicID]++
	}
	return counts
}
