package model

import (
	"time"

	"github.com/nao1215/reporttable/internal/document"
	"github.com/nao1215/reporttable/internal/table"
)

// Job is one render unit: a source document, the table built from it and
// the rendered output. Pipeline steps fill it in order.
//
// A Job is owned by a single goroutine while its pipeline runs.
type Job struct {
	// Source is the path of the input document.
	Source string `json:"source"`

	// Format is the requested output format.
	Format Format `json:"format"`

	// Title is the caption used by writers that support one. When empty
	// the document title is used.
	Title string `json:"title,omitempty"`

	// Document is the parsed input, set by the load step.
	Document *document.Document `json:"-"`

	// Table is the intermediate representation, set by the build step.
	Table *table.Table `json:"-"`

	// Output is the rendered result, set by the render step.
	Output []byte `json:"-"`

	// Warnings holds non-fatal problems found while building the table.
	Warnings []string `json:"warnings,omitempty"`

	// StartedAt is when the pipeline started working on the job.
	StartedAt time.Time `json:"startedAt"`

	// Elapsed is the time the pipeline spent on the job.
	Elapsed time.Duration `json:"elapsed"`

	// Err is the error that stopped the job, if any.
	Err error `json:"-"`

	// ErrorMessage is the string form of Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Saved reports whether the job was stored in the history database.
	Saved bool `json:"saved"`
}

// NewJob creates a job for the document at source.
func NewJob(source string, format Format) *Job {
	return &Job{
		Source:    source,
		Format:    format,
		StartedAt: time.Now(),
	}
}

// Failed reports whether the job stopped with an error.
func (j *Job) Failed() bool {
	return j.Err != nil
}

// Fatal reports whether the job stopped with a fatal table error.
func (j *Job) Fatal() bool {
	return table.IsFatal(j.Err)
}

// DisplayTitle returns the explicit title, falling back to the document
// title.
func (j *Job) DisplayTitle() string {
	if j.Title != "" {
		return j.Title
	}
	if j.Document != nil {
		return j.Document.Title
	}
	return ""
}
