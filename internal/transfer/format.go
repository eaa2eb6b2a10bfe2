// Package transfer converts tasks to and from the export and import file formats.
package transfer

import (
	"path/filepath"
	"strings"

	"task-tracker/internal/errors"
)

// Format names a file format
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
)

// ExportFormats lists the formats Export accepts
var ExportFormats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatYAML, FormatTable}

// ImportFormats lists the formats Import accepts
var ImportFormats = []Format{FormatJSON, FormatCSV}

// ParseFormat resolves a user-supplied format name. "md", "yml" and "txt" are accepted as aliases.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table", "txt":
		return FormatTable, nil
	}
	return "", errors.NewInvalidInputError("format", value, "must be one of: json, csv, markdown, yaml, table")
}

// FormatFromPath guesses the format from a file extension, falling back to JSON
func FormatFromPath(path string) Format {
	if format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return format
	}
	return FormatJSON
}

func supports(formats []Format, format Format) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}
