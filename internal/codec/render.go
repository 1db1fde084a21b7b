package codec

import (
	"bytes"

	"github.com/roach88/splice/internal/schema"
)

// JSON renders clips as indented JSON documents, one field per line, which
// line-diffs cleanly.
type JSON struct{}

// RenderClip returns the clip's document form.
func (JSON) RenderClip(c *schema.Clip) (string, error) {
	var buf bytes.Buffer
	if err := encodeDoc(&buf, encodeItem(c), FormatJSON); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// YAML renders clips as YAML documents.
type YAML struct{}

// RenderClip returns the clip's document form.
func (YAML) RenderClip(c *schema.Clip) (string, error) {
	var buf bytes.Buffer
	if err := encodeDoc(&buf, encodeItem(c), FormatYAML); err != nil {
		return "", err
	}
	return buf.String(), nil
}
