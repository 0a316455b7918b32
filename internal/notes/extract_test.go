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
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notesapi"
)

func decodeResponse(t *testing.T, body string) *notesapi.Response {
	t.Helper()
	var resp notesapi.Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

const scenarioBody = `{"data":[{"t_m_id":"TDS","n_data":[{"n_ans":"X","n_imgs":["i1"]},{"n_ans":"Y"}]},{"t_m_id":"OTHER","n_data":[{"n_ans":"Z"}]}]}`

func TestExtract_Scenario(t *testing.T) {
	rows, err := Extract(decodeResponse(t, scenarioBody), NewTopicSet("TDS"))
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{TopicID: "TDS", Note: "X", Images: "i1"},
		{TopicID: "TDS", Note: "Y", Images: ""},
	}, rows)
}

func TestExtract_EmptyFilter(t *testing.T) {
	rows, err := Extract(decodeResponse(t, scenarioBody), NewTopicSet())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExtract_NoTopics(t *testing.T) {
	for _, body := range []string{`{"data":[]}`, `{}`} {
		rows, err := Extract(decodeResponse(t, body), NewTopicSet("TDS", "OTHER"))
		require.NoError(t, err)
		assert.Empty(t, rows, body)
	}
}

func TestExtract_NilResponse(t *testing.T) {
	rows, err := Extract(nil, NewTopicSet("TDS"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExtract_CaseSensitive(t *testing.T) {
	rows, err := Extract(decodeResponse(t, scenarioBody), NewTopicSet("tds", " TDS"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExtract_PreservesResponseOrder(t *testing.T) {
	body := `{"data":[
		{"t_m_id":"B","n_data":[{"n_ans":"b1"},{"n_ans":"b2"}]},
		{"t_m_id":"SKIP","n_data":[{"n_ans":"s1"}]},
		{"t_m_id":"A","n_data":[{"n_ans":"a1","n_imgs":["p.png","q.png"]}]},
		{"t_m_id":"B","n_data":[{"n_ans":"b3"}]}
	]}`

	// Filter order must not influence row order.
	rows, err := Extract(decodeResponse(t, body), NewTopicSet("A", "B"))
	require.NoError(t, err)

	var got []string
	for _, r := range rows {
		got = append(got, r.TopicID+":"+r.Note)
	}
	assert.Equal(t, []string{"B:b1", "B:b2", "A:a1", "B:b3"}, got)
	assert.Equal(t, "p.png, q.png", rows[2].Images)
}

func TestExtract_RowsOnlyFromSelectedTopics(t *testing.T) {
	var body = `{"data":[`
	ids := []string{"T0", "T1", "T2", "T3", "T4"}
	for i, id := range ids {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"t_m_id":%q,"n_data":[{"n_ans":"%s-a"},{"n_ans":"%s-b"}]}`, id, id, id)
	}
	body += `]}`
	resp := decodeResponse(t, body)

	filters := [][]string{{"T1"}, {"T0", "T4"}, {"T2", "T3", "missing"}, ids}
	for _, filter := range filters {
		set := NewTopicSet(filter...)
		rows, err := Extract(resp, set)
		require.NoError(t, err)

		want := 0
		for _, id := range ids {
			if set.Contains(id) {
				want += 2
			}
		}
		assert.Len(t, rows, want, "filter %v", filter)
		for _, r := range rows {
			assert.True(t, set.Contains(r.TopicID), "row topic %q not in filter %v", r.TopicID, filter)
		}
	}
}

func TestExtract_InvalidNoteInSelectedTopic(t *testing.T) {
	body := `{"data":[{"t_m_id":"TDS","n_data":[{"n_ans":"ok"},{"n_imgs":["x"]}]}]}`

	rows, err := Extract(decodeResponse(t, body), NewTopicSet("TDS"))
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.True(t, errors.Is(err, fetcherrors.ErrInvalidNoteRecord))
	assert.Contains(t, err.Error(), `topic "TDS" note 1`)
}

func TestExtract_InvalidNoteInSkippedTopic(t *testing.T) {
	body := `{"data":[{"t_m_id":"OTHER","n_data":[{"broken":true},42]},{"t_m_id":"TDS","n_data":[{"n_ans":"ok"}]}]}`

	rows, err := Extract(decodeResponse(t, body), NewTopicSet("TDS"))
	require.NoError(t, err)
	assert.Equal(t, []Row{{TopicID: "TDS", Note: "ok"}}, rows)
}

func TestCountByTopic(t *testing.T) {
	rows := []Row{{TopicID: "A"}, {TopicID: "B"}, {TopicID: "A"}}
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, CountByTopic(rows))
	assert.Empty(t, CountByTopic(nil))
}

func TestRowValues(t *testing.T) {
	r := Row{TopicID: "TDS", Note: "X", Images: "i1"}
	assert.Equal(t, []string{"TDS", "X", "i1"}, r.Values())
	assert.Len(t, Header, 3)
}
