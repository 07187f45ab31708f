// Package pipeline runs table documents through a sequence of render steps.
//
// A job is loaded from its source document, validated and built into a
// table, rendered into the requested format and optionally recorded in the
// history database. Each stage is a Step that receives the job and fills
// in its part.
//
// The table model is not safe for concurrent use. BatchProcessor renders
// many sources at once by giving every job its own pipeline and table.
package pipeline
