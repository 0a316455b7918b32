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

// Stage identifies where a run is, or where it stopped.
type Stage int

const (
	StageReadState Stage = iota
	StageFetch
	StageExtractAndWrite
	StagePersistState
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageReadState:
		return "read-state"
	case StageFetch:
		return "fetch"
	case StageExtractAndWrite:
		return "extract-and-write"
	case StagePersistState:
		return "persist-state"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageError records the stage a run failed in. It unwraps to the cause, so
// errors.Is against the sentinel errors still works.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage.String() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
