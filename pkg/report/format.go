package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Format is a report output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for formats not in [AllFormats].
	ErrUnknownFormat = errors.New("unknown format")

	// AllFormats lists every valid [Format].
	AllFormats = []string{
		string(FormatTable),
		string(FormatMarkdown),
		string(FormatCSV),
		string(FormatJSON),
		string(FormatYAML),
	}
)

// ParseFormat converts a case-insensitive format name into a [Format].
// "md" is accepted as an alias of [FormatMarkdown].
func ParseFormat(s string) (Format, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if f == "md" {
		return FormatMarkdown, nil
	}

	if slices.Contains(AllFormats, f) {
		return Format(f), nil
	}

	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownFormat, s, strings.Join(AllFormats, ", "))
}

// Structured reports whether f is a data format rather than a table.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}
