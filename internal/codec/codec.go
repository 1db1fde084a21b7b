package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/splice/internal/schema"
)

// Encode writes c as a document in the given format.
func Encode(w io.Writer, c schema.Composition, f Format) error {
	doc, err := toDocument(c)
	if err != nil {
		return err
	}
	return encodeDoc(w, doc, f)
}

func encodeDoc(w io.Writer, doc any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return &Error{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unknown format %q", f)}
}

// Marshal is Encode into a byte slice.
func Marshal(c schema.Composition, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one document. Unknown fields are rejected.
func Decode(r io.Reader, f Format) (schema.Composition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Unmarshal(data, f)
}

// Unmarshal is Decode from a byte slice.
func Unmarshal(data []byte, f Format) (schema.Composition, error) {
	var k kindDoc
	if err := decodeStrict(data, f, &k, false); err != nil {
		return nil, err
	}

	switch schema.Kind(k.Kind) {
	case schema.KindTimeline:
		var d timelineDoc
		if err := decodeStrict(data, f, &d, true); err != nil {
			return nil, err
		}
		return decodeTimeline(d, "timeline")
	case schema.KindCollection:
		var d collectionDoc
		if err := decodeStrict(data, f, &d, true); err != nil {
			return nil, err
		}
		return decodeCollection(d, "collection")
	case schema.KindStack:
		var d stackDoc
		if err := decodeStrict(data, f, &d, true); err != nil {
			return nil, err
		}
		return decodeStack(d, "stack")
	case schema.KindTrack:
		var d trackDoc
		if err := decodeStrict(data, f, &d, true); err != nil {
			return nil, err
		}
		return decodeTrack(d, "track")
	case schema.KindClip:
		var d itemDoc
		if err := decodeStrict(data, f, &d, true); err != nil {
			return nil, err
		}
		return decodeItem(d, "clip")
	case "":
		return nil, malformed(nil, "document has no kind")
	}
	return nil, &Error{Code: ErrCodeUnsupportedKind, Message: fmt.Sprintf("unsupported document kind %q", k.Kind)}
}

// decodeStrict decodes data into v. With strict set, unknown fields and
// trailing documents are errors.
func decodeStrict(data []byte, f Format, v any, strict bool) error {
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return malformed(err, "invalid json document")
		}
		if strict {
			if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
				return malformed(err, "trailing data after json document")
			}
		}
		return nil
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(strict)
		if err := dec.Decode(v); err != nil {
			return malformed(err, "invalid yaml document")
		}
		return nil
	}
	return &Error{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unknown format %q", f)}
}

// ReadFile decodes the document at path, choosing the format by extension.
func ReadFile(path string) (schema.Composition, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	c, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteFile encodes c to path, choosing the format by extension.
func WriteFile(path string, c schema.Composition) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(c, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
