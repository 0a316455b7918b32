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

// Package pipeline runs one fetch pass: read the last-fetch timestamp, fetch
// everything newer from the notes service, keep the selected topics, write
// them to an output document, and advance the stored timestamp.
//
// Stages run strictly in order and any failure aborts the rest. Nothing is
// rolled back: if the timestamp cannot be persisted after the document was
// written, the document stays on disk and the next run fetches the same
// window again.
package pipeline
