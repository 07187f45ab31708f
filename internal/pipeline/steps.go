package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/reporttable/internal/document"
	"github.com/nao1215/reporttable/internal/model"
	"github.com/nao1215/reporttable/internal/report"
	"github.com/nao1215/reporttable/internal/table"
)

// ErrNoDocument is returned by BuildStep when no document was loaded.
var ErrNoDocument = errors.New("no document loaded")

// ErrNoTable is returned by RenderStep when no table was built.
var ErrNoTable = errors.New("no table built")

// ErrNoOutput is returned by SaveStep when nothing was rendered.
var ErrNoOutput = errors.New("no rendered output")

// LoadStep reads the job's source document.
// A job that already carries a document is left untouched, which lets
// callers feed documents that did not come from a file.
type LoadStep struct {
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, job *model.Job) error {
	if job.Document != nil {
		return nil
	}

	doc, err := document.Load(job.Source)
	if err != nil {
		return err
	}
	job.Document = doc

	s.logger.Debug("document loaded",
		"source", job.Source,
		"columns", len(doc.Columns),
		"lines", len(doc.Lines),
	)
	return nil
}

// BuildStep validates the loaded document and builds its table.
// Fatal problems abort the job. Other problems are recorded as warnings
// and the table is built with defaults in their place.
type BuildStep struct {
	logger *slog.Logger
}

// BuildStepOption configures a BuildStep.
type BuildStepOption func(*BuildStep)

// WithBuildLogger sets a custom logger for the build step.
func WithBuildLogger(logger *slog.Logger) BuildStepOption {
	return func(s *BuildStep) {
		s.logger = logger
	}
}

// NewBuildStep creates a new build step.
func NewBuildStep(opts ...BuildStepOption) *BuildStep {
	s := &BuildStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *BuildStep) Name() string {
	return "build"
}

// Do executes the build step.
func (s *BuildStep) Do(_ context.Context, job *model.Job) error {
	if job.Document == nil {
		return ErrNoDocument
	}

	t, err := job.Document.Build()
	if table.IsFatal(err) {
		return err
	}
	for _, w := range splitErrors(err) {
		s.logger.Warn("document problem", "source", job.Source, "problem", w.Error())
		job.Warnings = append(job.Warnings, w.Error())
	}
	job.Table = t
	return nil
}

// splitErrors flattens an errors.Join result into its parts.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// RenderStep renders the job's table in the job's format.
type RenderStep struct {
	opts   report.Options
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderDocument wraps HTML output in a complete page.
func WithRenderDocument(enabled bool) RenderStepOption {
	return func(s *RenderStep) {
		s.opts.Document = enabled
	}
}

// WithRenderDelimiter sets the CSV field separator.
func WithRenderDelimiter(r rune) RenderStepOption {
	return func(s *RenderStep) {
		s.opts.Delimiter = r
	}
}

// WithRenderPretty enables indented JSON output.
func WithRenderPretty(pretty bool) RenderStepOption {
	return func(s *RenderStep) {
		s.opts.Pretty = pretty
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a new render step.
func NewRenderStep(opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, job *model.Job) error {
	if job.Table == nil {
		return ErrNoTable
	}

	opts := s.opts
	opts.Title = job.DisplayTitle()

	var buf bytes.Buffer
	w, err := report.NewWriter(job.Format, &buf, opts)
	if err != nil {
		return err
	}
	n, err := w.Write(job.Table)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", job.Format, err)
	}
	job.Output = buf.Bytes()

	s.logger.Debug("table rendered",
		"source", job.Source,
		"format", job.Format,
		"bytes", n,
	)
	return nil
}

// Recorder stores rendered jobs. It is implemented by the history database.
type Recorder interface {
	SaveRender(ctx context.Context, job *model.Job) (int64, error)
}

// SaveStep records the rendered job through a Recorder.
type SaveStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a new save step writing to recorder.
func NewSaveStep(recorder Recorder, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{recorder: recorder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do executes the save step.
func (s *SaveStep) Do(ctx context.Context, job *model.Job) error {
	if job.Output == nil {
		return ErrNoOutput
	}

	id, err := s.recorder.SaveRender(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to save render: %w", err)
	}
	job.Saved = true

	s.logger.Debug("render saved", "source", job.Source, "id", id)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Document wraps HTML output in a complete page.
	Document bool

	// Delimiter is the CSV field separator. Zero means a comma.
	Delimiter rune

	// Pretty enables indented JSON output.
	Pretty bool

	// Recorder receives rendered jobs. Nil disables the save step.
	Recorder Recorder

	// Logger is passed to every step. Nil means slog.Default.
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineDocument wraps HTML output in a complete page.
func WithPipelineDocument(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Document = enabled
	}
}

// WithPipelineDelimiter sets the CSV field separator.
func WithPipelineDelimiter(r rune) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Delimiter = r
	}
}

// WithPipelinePretty enables indented JSON output.
func WithPipelinePretty(pretty bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Pretty = pretty
	}
}

// WithPipelineRecorder appends a save step writing to recorder.
func WithPipelineRecorder(recorder Recorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = recorder
	}
}

// WithPipelineStepLogger sets the logger used by every step.
func WithPipelineStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates a pipeline that loads, builds and renders a
// job, then saves it when a recorder is configured.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts step config options.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p.AddSteps(
		NewLoadStep(WithLoadLogger(logger)),
		NewBuildStep(WithBuildLogger(logger)),
		NewRenderStep(
			WithRenderDocument(cfg.Document),
			WithRenderDelimiter(cfg.Delimiter),
			WithRenderPretty(cfg.Pretty),
			WithRenderLogger(logger),
		),
	)
	if cfg.Recorder != nil {
		p.AddStep(NewSaveStep(cfg.Recorder, WithSaveLogger(logger)))
	}

	return p
}
