// Package model defines the data structures shared by the render pipeline,
// the report writers and the history database.
//
// This package contains the following main types:
//   - Format: an output format supported by the report writers
//   - Job: one document flowing through the render pipeline
//
// Keeping them here lets the pipeline, report and database packages share
// them without import cycles.
package model
