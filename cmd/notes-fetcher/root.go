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
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/DeveloperDowny/notes-data-fetcher/internal/config"
	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/logging"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/metadata"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/notesapi"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/output"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/pipeline"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/report"
	"github.com/DeveloperDowny/notes-data-fetcher/internal/state"
)

// app carries the process-level dependencies shared by every command.
type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	// transport and now are overridden in tests; nil means the defaults.
	transport http.RoundTripper
	now       func() time.Time
}

// globalOptions are the persistent flags.
type globalOptions struct {
	configPath string
	envFile    string
	colorMode  string
	quiet      bool
}

// fetchOptions are the flags of the root fetch command.
type fetchOptions struct {
	output  string
	format  string
	verbose bool
	preview int
}

func newRootCommand(a *app) *cobra.Command {
	var (
		global globalOptions
		opts   fetchOptions
	)

	cmd := &cobra.Command{
		Use:   "notes-fetcher [topic-id...]",
		Short: "Fetch notes changed since the last run and export them",
		Long: `notes-fetcher downloads every note changed since the previous run from the
notes service, keeps the topics given as arguments (default: TDS), writes
them to a spreadsheet in the output directory, and records the time of the
run for next time.

The service location is read from API_BASE_URL (environment, .env file, or
api.base_url in the config file). The last-fetch timestamp lives in
config.xlsx unless state.file says otherwise; create it with 'state set'.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd, global, opts, args)
		},
	}

	cmd.PersistentFlags().StringVar(&global.configPath, "config", "", "Config file path (default: .notes-fetcher.yaml or ~/.notes-fetcher/config.yaml)")
	cmd.PersistentFlags().StringVar(&global.envFile, "env-file", "", "Dotenv file to read (default: .env)")
	cmd.PersistentFlags().StringVar(&global.colorMode, "color", "auto", "Color output: auto, always, or never")
	cmd.PersistentFlags().BoolVarP(&global.quiet, "quiet", "q", false, "Suppress the run summary")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: <output.dir>/<topics>_notes_<timestamp>.<format>)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: xlsx or ndjson (overrides output.format)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "Print the first N exported notes")

	cmd.AddCommand(newStateCommand(a, &global))
	cmd.AddCommand(newVersionCommand(a))

	return cmd
}

// loadConfig loads configuration from files and environment and applies
// the shared flags. It does not validate.
func loadConfig(global globalOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(global.configPath, global.envFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetcherrors.ErrConfiguration, err)
	}
	return cfg, nil
}

// newPrinter builds the result printer from the shared flags.
func (a *app) newPrinter(global globalOptions) (*report.Printer, error) {
	mode, err := report.ParseColorMode(global.colorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetcherrors.ErrConfiguration, err)
	}
	return report.NewPrinter(a.stdout, a.stderr, report.PrinterOptions{ColorMode: mode, Quiet: global.quiet}), nil
}

func (a *app) clock() func() time.Time {
	if a.now != nil {
		return a.now
	}
	return time.Now
}

// runFetch executes one fetch pass. Configuration is fully validated before
// the state store, the network, or the output directory is touched.
func (a *app) runFetch(cmd *cobra.Command, global globalOptions, opts fetchOptions, args []string) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	printer, err := a.newPrinter(global)
	if err != nil {
		return err
	}

	logger := logging.New(a.stderr, cfg.Logging.Level, cfg.Logging.Format)

	userAgent := cfg.API.UserAgent
	if userAgent == "" {
		userAgent = "notes-fetcher/" + version
	}

	now := a.clock()
	exporter := output.NewExporter(a.fs, cfg.Output.Dir, cfg.Output.Format)
	exporter.Now = now

	runner := pipeline.NewRunner(
		state.NewStore(a.fs, cfg.State.File),
		notesapi.NewHTTPClientWithTransport(cfg.API.BaseURL, userAgent, a.transport),
		exporter,
		logger,
	)
	runner.Now = now

	topics := cfg.TopicsOrDefault(args)
	logger.Debug("starting run", "topics", topics, "state_file", cfg.State.File, "output_dir", cfg.Output.Dir)

	res, err := runner.Run(cmd.Context(), topics, opts.output)
	if err != nil {
		return err
	}

	if cfg.Metadata.Dir != "" {
		a.saveMetadata(res, cfg, logger, printer)
	}

	if err := report.WriteSummary(printer, report.Summary{
		Topics:     topics,
		Rows:       res.Rows,
		Since:      res.Since,
		NextSince:  res.NextSince,
		OutputPath: res.OutputPath,
	}); err != nil {
		logger.Warn("failed to render summary", "error", err)
	}
	if err := report.WritePreview(printer, res.Rows, opts.preview, report.DefaultPreviewWidth); err != nil {
		logger.Warn("failed to render preview", "error", err)
	}

	return nil
}

// saveMetadata records the run. The state is already advanced at this point,
// so failures are reported but do not fail the run.
func (a *app) saveMetadata(res *pipeline.Result, cfg *config.Config, logger *slog.Logger, printer *report.Printer) {
	previous, err := metadata.LoadLatestMetadata(a.fs, cfg.Metadata.Dir)
	if err != nil {
		logger.Warn("failed to load previous run record", "dir", cfg.Metadata.Dir, "error", err)
	}

	record, err := res.Metadata(version, cfg.Output.Format, previous.Ref())
	if err == nil {
		var path string
		path, err = metadata.SaveMetadata(a.fs, record, cfg.Metadata.Dir)
		if err == nil {
			logger.Debug("saved run record", "path", path, "run_id", record.RunID)
			return
		}
	}

	logger.Warn("failed to save run record", "dir", cfg.Metadata.Dir, "error", err)
	printer.Warning("Run record not saved: %v", err)
}
