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

// Package output writes exported note rows to disk.
//
// Two formats are supported: an XLSX workbook (the default) and NDJSON
// (Newline Delimited JSON). Both implement RowWriter and stream rows as they
// are written. Exporter ties a writer to a destination: either a
// caller-supplied path or one derived from the requested topic identifiers
// and the generation time, under an output directory that must already exist.
//
// Example usage:
//
//	exp := output.NewExporter(afero.NewOsFs(), "output", output.FormatXLSX)
//	path, err := exp.Export(rows, []string{"TDS"}, "")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
package output
