package config

import (
	"path/filepath"
	"slices"
)

// SourceConfig holds render settings for documents matching a pattern.
type SourceConfig struct {
	// Format overrides the output format.
	Format string `yaml:"format,omitempty"`

	// Title overrides the document title.
	Title string `yaml:"title,omitempty"`

	// Delimiter overrides the CSV field separator.
	Delimiter string `yaml:"delimiter,omitempty"`

	// Document wraps HTML output in a complete page when set.
	Document *bool `yaml:"document,omitempty"`

	// Pretty enables indented JSON output when set.
	Pretty *bool `yaml:"pretty,omitempty"`
}

// File represents the structure of the .reporttable configuration file.
type File struct {
	// Defaults applies to every source unless overridden.
	Defaults SourceConfig `yaml:"defaults,omitempty"`

	// Sources maps a path or glob pattern to its settings. Patterns are
	// matched against the full path and against the base name.
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Redact lists log attribute keys whose values are masked.
	Redact []string `yaml:"redact,omitempty"`
}

// GetSourceConfig returns the settings for the document at path.
// Matching entries are merged over the defaults in key order, so a more
// specific pattern should sort after a general one.
func (cf *File) GetSourceConfig(path string) SourceConfig {
	result := cf.Defaults

	keys := make([]string, 0, len(cf.Sources))
	for k := range cf.Sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !matchSource(key, path) {
			continue
		}
		sc := cf.Sources[key]
		if sc.Format != "" {
			result.Format = sc.Format
		}
		if sc.Title != "" {
			result.Title = sc.Title
		}
		if sc.Delimiter != "" {
			result.Delimiter = sc.Delimiter
		}
		if sc.Document != nil {
			result.Document = sc.Document
		}
		if sc.Pretty != nil {
			result.Pretty = sc.Pretty
		}
	}

	return result
}

// matchSource reports whether pattern selects path.
func matchSource(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// Apply returns a copy of c with the settings of sc taking precedence.
func (c *Config) Apply(sc SourceConfig) *Config {
	out := *c
	if sc.Format != "" {
		out.Format = sc.Format
	}
	if sc.Title != "" {
		out.Title = sc.Title
	}
	if sc.Delimiter != "" {
		out.Delimiter = sc.Delimiter
	}
	if sc.Document != nil {
		out.Document = *sc.Document
	}
	if sc.Pretty != nil {
		out.Pretty = *sc.Pretty
	}
	return &out
}
