package config

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"

	"github.com/nao1215/reporttable/internal/model"
)

// Default configuration values.
const (
	// DefaultFormat is the output format used when none is given.
	DefaultFormat = string(model.FormatHTML)

	// DefaultDelimiter is the CSV field separator.
	DefaultDelimiter = ","

	// DefaultBatchSize is the number of documents rendered at once.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "reporttable"
)

// Config holds all configuration options for reporttable.
// It is populated from CLI flags and the config file, then passed down
// explicitly rather than kept in global state.
type Config struct {
	// Format is the output format name, see model.ParseFormat.
	Format string

	// OutputPath is the output file, or a directory when several sources
	// are rendered. Empty means stdout.
	OutputPath string

	// Document wraps HTML output in a complete page.
	Document bool

	// Pretty enables indented JSON output.
	Pretty bool

	// Title overrides the document title for writers that print one.
	Title string

	// Delimiter is the CSV field separator. It must be a single character.
	Delimiter string

	// BatchSize is the number of documents rendered concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// JSONLogs switches log output to JSON lines.
	JSONLogs bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// SourceConfigs holds per-source settings loaded from the config file.
	SourceConfigs *File

	// Sources is the list of documents to render.
	Sources []string

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records each render in the history database.
	SaveToDB bool

	// RedactKeys lists log attribute keys whose values are masked.
	RedactKeys []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:    DefaultFormat,
		Delimiter: DefaultDelimiter,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for reporttable.
// On Linux: ~/.local/share/reporttable
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for reporttable.
// On Linux: ~/.config/reporttable
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DelimiterRune returns the delimiter as a rune, or zero when unset.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() (model.Format, error) {
	return model.ParseFormat(c.Format)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSource
	}

	if _, err := c.OutputFormat(); err != nil {
		return ErrInvalidFormat
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return ErrInvalidDelimiter
	}
	switch c.DelimiterRune() {
	case 0, '"', '\r', '\n':
		return ErrInvalidDelimiter
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
