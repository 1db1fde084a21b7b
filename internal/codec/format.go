// Package codec reads and writes composition documents.
//
// A document is a single JSON or YAML object whose "kind" field names the
// root entity: Timeline, Collection, Stack, Track or Clip. Output is
// deterministic: the same tree always encodes to the same bytes, and
// metadata keeps the key order it was read with.
package codec

import (
	"path/filepath"
	"strings"
)

// Format is a document serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", &Error{Code: ErrCodeUnknownFormat, Message: "unknown format " + s + " (want json or yaml)"}
}

// FormatForPath picks the format from a file extension: .json and .splice
// are JSON, .yaml and .yml are YAML.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".splice":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", &Error{Code: ErrCodeUnknownFormat, Message: "cannot infer document format from " + path}
}
