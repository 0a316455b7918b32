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

// Package notes turns the raw notes-service response into export rows.
//
// Note records arrive as loosely shaped JSON. DecodeNote validates one record
// explicitly: the answer text is required, the image list is optional. Extract
// walks a response in order, keeps the topics a caller asked for, and
// flattens their notes into Rows.
package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
)

// ImageSeparator joins image references in a Row.
const ImageSeparator = ", "

// Field names of a note record. The long names are accepted as alternates.
const (
	fieldAnswer    = "n_ans"
	fieldImages    = "n_imgs"
	altFieldAnswer = "note"
	altFieldImages = "note_images"
)

// Note is a single answer with its optional illustrations.
type Note struct {
	Text string

	// Images is nil when the record had no image list.
	Images []string
}

// ImageDisplay renders the image references for a spreadsheet cell.
func (n Note) ImageDisplay() string {
	return FormatImages(n.Images)
}

// FormatImages joins image references with ImageSeparator. No images yields "".
func FormatImages(images []string) string {
	return strings.Join(images, ImageSeparator)
}

// DecodeNote validates one raw note record. A record that is not an object,
// lacks a string answer, or carries a non-list image field wraps
// errors.ErrInvalidNoteRecord.
func DecodeNote(raw json.RawMessage) (Note, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Note{}, fmt.Errorf("%w: record is not an object: %s", fetcherrors.ErrInvalidNoteRecord, abbreviate(raw))
	}

	answerRaw, ok := lookup(fields, fieldAnswer, altFieldAnswer)
	if !ok {
		return Note{}, fmt.Errorf("%w: missing %q", fetcherrors.ErrInvalidNoteRecord, fieldAnswer)
	}
	var text string
	if err := json.Unmarshal(answerRaw, &text); err != nil {
		return Note{}, fmt.Errorf("%w: %q must be a string, got %s", fetcherrors.ErrInvalidNoteRecord, fieldAnswer, abbreviate(answerRaw))
	}

	note := Note{Text: text}
	if imagesRaw, ok := lookup(fields, fieldImages, altFieldImages); ok {
		var images []*string
		if err := json.Unmarshal(imagesRaw, &images); err != nil {
			return Note{}, fmt.Errorf("%w: %q must be a list of strings, got %s", fetcherrors.ErrInvalidNoteRecord, fieldImages, abbreviate(imagesRaw))
		}
		note.Images = make([]string, len(images))
		for i, img := range images {
			if img == nil {
				return Note{}, fmt.Errorf("%w: %q entry %d is null", fetcherrors.ErrInvalidNoteRecord, fieldImages, i)
			}
			note.Images[i] = *img
		}
	}

	return note, nil
}

// lookup returns the first present, non-null field among names.
func lookup(fields map[string]json.RawMessage, names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		return v, true
	}
	return nil, false
}

// abbreviate keeps error messages readable for large records.
func abbreviate(raw json.RawMessage) string {
	const limit = 80
	s := string(bytes.TrimSpace(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
