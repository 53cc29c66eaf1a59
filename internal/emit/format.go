package emit

import (
	"strings"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

// Format selects the representation written for the site generator.
type Format string

const (
	// FormatMTS is the generator's TypeScript entry point (.vitepress/config.mts).
	FormatMTS  Format = "mts"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats, default first.
func Formats() []Format { return []Format{FormatMTS, FormatJSON, FormatYAML} }

// ParseFormat accepts a format name; empty selects FormatMTS.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatMTS, nil
	case "yml":
		return FormatYAML, nil
	case FormatMTS, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.ValidationError("unsupported output format").
			WithContext("format", s).
			WithContext("supported", Formats()).
			Build()
	}
}

// FileName is the name the generator looks for under .vitepress.
func (f Format) FileName() string { return "config." + string(f) }
