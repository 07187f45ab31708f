// Package main provides the entry point for the reporttable CLI.
//
// reporttable renders table documents (YAML or JSON descriptions of columns,
// lines and cells) into HTML, CSV, Markdown, plain text or JSON.
//
// Usage:
//
//	reporttable render status.yaml
//	reporttable render --format csv -o out/ *.yaml
//
// See --help for all available options.
package main

// main is the entry point for reporttable.
func main() {
	Execute()
}
