// Package document defines the serialized form of a report table.
//
// A Document is the exchange format between report generators and the
// reporttable CLI: it lists columns and lines with every cell attribute the
// table package models. Documents are written in YAML or JSON and turned
// into a table.Table by Build.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization format of a document file.
type Format string

const (
	// FormatYAML is the default document format.
	FormatYAML Format = "yaml"
	// FormatJSON is selected for files with a .json extension.
	FormatJSON Format = "json"
)

// ErrEmptyDocument is returned when a document file has no content.
var ErrEmptyDocument = errors.New("document is empty")

// Document is a complete report table.
type Document struct {
	// Title is an optional caption used by writers that support one.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// HeaderLineHeight overrides the height of the header rows in pixels.
	HeaderLineHeight int `yaml:"headerLineHeight,omitempty" json:"headerLineHeight,omitempty"`

	// HeaderFontSize overrides the header font size in pixels.
	HeaderFontSize int `yaml:"headerFontSize,omitempty" json:"headerFontSize,omitempty"`

	// Columns are rendered left to right.
	Columns []ColumnSpec `yaml:"columns" json:"columns"`

	// Lines are rendered top to bottom.
	Lines []LineSpec `yaml:"lines" json:"lines"`
}

// ColumnSpec describes one column header.
type ColumnSpec struct {
	// ID identifies the column. It is title-cased into the title when
	// Title is empty.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	// Title is the text of the first header row.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// Subtitle is the text of the second header row.
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`

	// MinWidth is the fixed width of the title cell in pixels.
	MinWidth int `yaml:"minWidth,omitempty" json:"minWidth,omitempty"`

	// Scrollbar marks the column as carrying a scrollbar.
	Scrollbar bool `yaml:"scrollbar,omitempty" json:"scrollbar,omitempty"`

	// Align is the alignment of both header cells.
	Align string `yaml:"align,omitempty" json:"align,omitempty"`
}

// LineSpec describes one row.
type LineSpec struct {
	Indentation int        `yaml:"indentation,omitempty" json:"indentation,omitempty"`
	Height      int        `yaml:"height,omitempty" json:"height,omitempty"`
	Cells       []CellSpec `yaml:"cells" json:"cells"`
}

// CellSpec describes one cell. Pointer fields distinguish "not set" from
// the zero value.
type CellSpec struct {
	Text     *string `yaml:"text,omitempty" json:"text,omitempty"`
	Data     any     `yaml:"data,omitempty" json:"data,omitempty"`
	Category string  `yaml:"category,omitempty" json:"category,omitempty"`
	Hidden   bool    `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Align    string  `yaml:"align,omitempty" json:"align,omitempty"`
	Padding  *int    `yaml:"padding,omitempty" json:"padding,omitempty"`
	Indent   *int    `yaml:"indent,omitempty" json:"indent,omitempty"`
	FontSize int     `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	Bold     bool    `yaml:"bold,omitempty" json:"bold,omitempty"`
	Width    int     `yaml:"width,omitempty" json:"width,omitempty"`
	Rows     int     `yaml:"rows,omitempty" json:"rows,omitempty"`
	Columns  int     `yaml:"columns,omitempty" json:"columns,omitempty"`

	// Link turns the cell into a hyperlink special. The cell text is the
	// link text.
	Link string `yaml:"link,omitempty" json:"link,omitempty"`
}

// DetectFormat returns the document format implied by the file extension.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided document path is intentional
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}
