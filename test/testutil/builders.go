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

// NotesResponseBuilder provides a fluent API for creating notes service
// responses in their wire shape.
type NotesResponseBuilder struct {
	topics []map[string]interface{}
}

// NewNotesResponseBuilder creates an empty response builder.
func NewNotesResponseBuilder() *NotesResponseBuilder {
	return &NotesResponseBuilder{topics: []map[string]interface{}{}}
}

// WithTopic appends a topic holding the given note records.
func (b *NotesResponseBuilder) WithTopic(id string, notes ...map[string]interface{}) *NotesResponseBuilder {
	records := make([]map[string]interface{}, 0, len(notes))
	records = append(records, notes...)
	b.topics = append(b.topics, map[string]interface{}{
		"t_m_id": id,
		"n_data": records,
	})
	return b
}

// Build returns the response document.
func (b *NotesResponseBuilder) Build() map[string]interface{} {
	return map[string]interface{}{
		"data": b.topics,
	}
}

// Note builds a note record with answer text and optional image references.
func Note(answer string, images ...string) map[string]interface{} {
	note := map[string]interface{}{"n_ans": answer}
	if len(images) > 0 {
		note["n_imgs"] = images
	}
	return note
}

// ScenarioResponse is the TDS/OTHER response used across tests: filtering
// by TDS yields ("TDS","X","i1") and ("TDS","Y","").
func ScenarioResponse() map[string]interface{} {
	return NewNotesResponseBuilder().
		WithTopic("TDS", Note("X", "i1"), Note("Y")).
		WithTopic("OTHER", Note("Z")).
		Build()
}
