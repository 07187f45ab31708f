package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/reporttable/internal/config"
	"github.com/nao1215/reporttable/internal/database"
	rtlog "github.com/nao1215/reporttable/internal/log"
	"github.com/nao1215/reporttable/internal/model"
	"github.com/nao1215/reporttable/internal/pipeline"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render table documents",
		Long: `Render reads table documents and writes them in the requested format.

A document is a YAML or JSON file describing columns and lines of cells.
Problems that only affect presentation, such as an unknown alignment, are
reported as warnings and the table is rendered with defaults. Problems that
leave no valid table, such as a document with no columns, abort the
document.

Examples:
  # Render a document as an HTML table fragment to stdout
  reporttable render status.yaml

  # Render a complete HTML page
  reporttable render --document -o status.html status.yaml

  # Render several documents as semicolon separated CSV into a directory
  reporttable render -f csv --delimiter ";" -o out/ a.yaml b.yaml

  # Render and record the output in the history database
  reporttable render --save status.yaml

Configuration file (.reporttable) example:
  defaults:
    format: html
  sources:
    "*.csv.yaml":
      format: csv
      delimiter: ";"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRenderCmd,
	}

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format (html, csv, markdown, text, json)")
	cmd.Flags().StringP("output", "o", "",
		"Output file, or directory when rendering several documents (default: stdout)")
	cmd.Flags().BoolP("document", "d", false,
		"Wrap HTML output in a complete page")
	cmd.Flags().StringP("title", "t", "",
		"Title for formats that support one (default: document title)")
	cmd.Flags().String("delimiter", config.DefaultDelimiter,
		"CSV field separator")
	cmd.Flags().BoolP("pretty", "p", false,
		"Indent JSON output")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of documents rendered concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .reporttable in current or home directory)")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Record renders in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	// Logging flags
	cmd.Flags().Bool("json-logs", false,
		"Write logs as JSON")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder pipeline.Recorder
	if cfg.SaveToDB {
		hdb, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			if err := hdb.Close(); err != nil {
				logger.Warn("failed to close history database", "error", err)
			}
		}()
		recorder = hdb
	}

	r, err := newRenderer(cmd, cfg, logger, recorder)
	if err != nil {
		return err
	}
	return r.run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the logger selected by cfg. Sensitive values are
// masked in both text and JSON output.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLogs {
		return rtlog.NewJSONLogger(w, cfg.Verbose, cfg.RedactKeys...)
	}
	return rtlog.NewLogger(w, cfg.Verbose, cfg.RedactKeys...)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Sources = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, err
	}
	if cfg.OutputPath, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Document, err = cmd.Flags().GetBool("document"); err != nil {
		return nil, err
	}
	if cfg.Title, err = cmd.Flags().GetString("title"); err != nil {
		return nil, err
	}
	if cfg.Delimiter, err = cmd.Flags().GetString("delimiter"); err != nil {
		return nil, err
	}
	if cfg.Pretty, err = cmd.Flags().GetBool("pretty"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.JSONLogs, err = cmd.Flags().GetBool("json-logs"); err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use an empty config if no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SourceConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("config file not found: %s", cfg.ConfigFilePath)
	}

	if cfg.SourceConfigs == nil {
		cfg.SourceConfigs = &config.File{Sources: make(map[string]config.SourceConfig)}
	}
	cfg.RedactKeys = cfg.SourceConfigs.Redact

	return cfg, nil
}

// sourceSettings returns cfg with the configuration file settings for
// source applied. Flags given on the command line take precedence over
// the file.
func sourceSettings(cmd *cobra.Command, cfg *config.Config, source string) *config.Config {
	sc := cfg.SourceConfigs.GetSourceConfig(source)

	flags := cmd.Flags()
	if flags.Changed("format") {
		sc.Format = ""
	}
	if flags.Changed("title") {
		sc.Title = ""
	}
	if flags.Changed("delimiter") {
		sc.Delimiter = ""
	}
	if flags.Changed("document") {
		sc.Document = nil
	}
	if flags.Changed("pretty") {
		sc.Pretty = nil
	}

	return cfg.Apply(sc)
}

// renderer holds the jobs of one render command invocation.
type renderer struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder pipeline.Recorder
	jobs     []*model.Job

	// settings is read concurrently by pipeline factories and never
	// written after newRenderer returns.
	settings map[*model.Job]*config.Config
}

// newRenderer creates one job per source with its effective settings.
func newRenderer(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, recorder pipeline.Recorder) (*renderer, error) {
	r := &renderer{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		settings: make(map[*model.Job]*config.Config, len(cfg.Sources)),
	}

	for _, source := range cfg.Sources {
		sourceCfg := sourceSettings(cmd, cfg, source)
		if err := sourceCfg.Validate(); err != nil {
			return nil, fmt.Errorf("configuration error for %s: %w", source, err)
		}
		format, err := sourceCfg.OutputFormat()
		if err != nil {
			return nil, err
		}

		job := model.NewJob(source, format)
		job.Title = sourceCfg.Title
		r.jobs = append(r.jobs, job)
		r.settings[job] = sourceCfg
	}

	return r, nil
}

// pipelineFor creates the pipeline for job from its settings.
func (r *renderer) pipelineFor(job *model.Job) *pipeline.Pipeline {
	s := r.settings[job]

	opts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineDocument(s.Document),
		pipeline.WithPipelineDelimiter(s.DelimiterRune()),
		pipeline.WithPipelinePretty(s.Pretty),
		pipeline.WithPipelineStepLogger(r.logger),
	}
	if r.recorder != nil {
		opts = append(opts, pipeline.WithPipelineRecorder(r.recorder))
	}

	return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(r.logger)}, opts...)
}

// run renders every job, writes the outputs and reports failures.
func (r *renderer) run(ctx context.Context, stdout, stderr io.Writer) error {
	start := time.Now()

	if len(r.jobs) == 1 {
		// The error is recorded in the job.
		_ = r.pipelineFor(r.jobs[0]).Execute(ctx, r.jobs[0])
	} else {
		bp := pipeline.NewBatchProcessor(r.pipelineFor,
			pipeline.WithConcurrency(r.cfg.BatchSize),
			pipeline.WithBatchLogger(r.logger),
		)
		if _, err := bp.ProcessBatch(ctx, r.jobs); err != nil {
			return fmt.Errorf("render cancelled: %w", err)
		}
	}

	if err := r.writeOutputs(stdout); err != nil {
		return err
	}

	failed := 0
	for _, job := range r.jobs {
		if job.Failed() {
			failed++
			fmt.Fprintf(stderr, "%s: %v\n", job.Source, job.Err)
		}
	}

	r.logger.Info("render complete",
		"documents", len(r.jobs),
		"failed", failed,
		"elapsed", time.Since(start),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to render", failed, len(r.jobs))
	}
	return nil
}

// writeOutputs writes the rendered jobs to stdout, a single file, or one
// file per document in the output directory.
func (r *renderer) writeOutputs(stdout io.Writer) error {
	switch {
	case r.cfg.OutputPath == "":
		for _, job := range r.jobs {
			if job.Failed() {
				continue
			}
			if _, err := stdout.Write(job.Output); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	case len(r.jobs) == 1:
		if r.jobs[0].Failed() {
			return nil
		}
		return writeOutputFile(r.cfg.OutputPath, r.jobs[0].Output)
	default:
		names, err := outputNames(r.jobs)
		if err != nil {
			return err
		}
		for i, job := range r.jobs {
			if job.Failed() {
				continue
			}
			path := filepath.Join(r.cfg.OutputPath, names[i])
			if err := writeOutputFile(path, job.Output); err != nil {
				return err
			}
			r.logger.Debug("output written", "source", job.Source, "path", path)
		}
		return nil
	}
}

// errDuplicateOutput is returned when two documents would be written to
// the same output file.
var errDuplicateOutput = errors.New("documents map to the same output file")

// outputNames returns the output file name of each job: the source base
// name with its extension replaced by the format extension.
func outputNames(jobs []*model.Job) ([]string, error) {
	names := make([]string, len(jobs))
	seen := make(map[string]string, len(jobs))
	for i, job := range jobs {
		base := filepath.Base(job.Source)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + job.Format.Extension()
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s and %s both produce %s", errDuplicateOutput, other, job.Source, name)
		}
		seen[name] = job.Source
		names[i] = name
	}
	return names, nil
}

// writeOutputFile writes data to path, creating parent directories.
func writeOutputFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
