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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/metadata"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/report"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/state"
)

func newStateCommand(a *app, global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or set the last-fetch timestamp",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored last-fetch timestamp and the latest run record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStateShow(*global)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <timestamp>",
		Short: "Create or overwrite the last-fetch timestamp",
		Long: `Create or overwrite the last-fetch timestamp. The next fetch asks the
service for notes changed after this time.

Accepted formats: "YYYY-MM-DD HH:MM:SS", "YYYY-MM-DD", or RFC 3339.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStateSet(*global, args[0])
		},
	})

	return cmd
}

func (a *app) runStateShow(global globalOptions) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLocal(); err != nil {
		return err
	}
	printer, err := a.newPrinter(global)
	if err != nil {
		return err
	}

	store := state.NewStore(a.fs, cfg.State.File)
	ts, err := store.ReadLastFetch()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\n", state.FormatTimestamp(ts))

	if cfg.Metadata.Dir == "" {
		return nil
	}
	latest, err := metadata.LoadLatestMetadata(a.fs, cfg.Metadata.Dir)
	if err != nil {
		printer.Warning("Could not read run records: %v", err)
		return nil
	}
	if latest == nil {
		printer.Info("No run records in %s", cfg.Metadata.Dir)
		return nil
	}

	printer.Header("Latest run")
	table := report.NewTable(printer.Out(), []string{"Field", "Value"})
	table.AddRow("Run ID", latest.RunID)
	table.AddRow("Completed", latest.Results.CompletedAt.Format(report.TimestampLayout))
	table.AddRow("Since", latest.Parameters.Since.Format(report.TimestampLayout))
	table.AddRow("Notes", strconv.Itoa(latest.Results.TotalNotes))
	table.AddRow("Output", latest.Parameters.OutputPath)
	table.AddRow("Version", latest.FetcherVersion)
	if printer.IsQuiet() {
		return nil
	}
	return table.Render()
}

func (a *app) runStateSet(global globalOptions, value string) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLocal(); err != nil {
		return err
	}
	printer, err := a.newPrinter(global)
	if err != nil {
		return err
	}

	ts, err := state.ParseTimestamp(value)
	if err != nil {
		return fmt.Errorf("%w: %w", fetcherrors.ErrConfiguration, err)
	}

	store := state.NewStore(a.fs, cfg.State.File)
	if err := store.WriteLastFetch(ts); err != nil {
		return err
	}

	printer.Success("Last fetch set to %s in %s", state.FormatTimestamp(ts), store.Path())
	return nil
}
