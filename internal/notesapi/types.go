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

package notesapi

import "encoding/json"

// Response is the decoded body of a notes request.
type Response struct {
	// Topics in the order the service returned them. A body without a
	// "data" key decodes to no topics.
	Topics []Topic `json:"data"`
}

// Topic groups the note records of one topic identifier.
type Topic struct {
	ID string `json:"t_m_id"`

	// Notes holds each record undecoded. Records are validated only for the
	// topics a caller selects.
	Notes []json.RawMessage `json:"n_data"`
}

// NoteCount returns the total number of note records across all topics.
func (r *Response) NoteCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, t := range r.Topics {
		n += len(t.Notes)
	}
	return n
}
