package manifest

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/ardnew/lutgen/pkg"
)

// Format is a manifest encoding.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatJSON               // json
	FormatTOML               // toml
	FormatHCL                // hcl
)

// Formats returns an iterator over the names of all manifest formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatYAML, FormatJSON, FormatTOML, FormatHCL} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// Ext returns the canonical file extension of the format.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat parses a format name or file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return FormatYAML, pkg.ErrManifestFormat.Wrapf("%q", s)
	}
}

// FormatOf returns the format of a manifest file from its extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}
