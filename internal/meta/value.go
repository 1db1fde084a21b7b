package meta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface over the metadata value kinds.
// Only Null, String, Int, Float, Bool, List and Map implement it.
type Value interface {
	metaValue()
}

// Null is an explicit null. Using a type keeps every Value non-nil.
type Null struct{}

func (Null) metaValue() {}

// String is a string value.
type String string

func (String) metaValue() {}

// Int is an integer value.
type Int int64

func (Int) metaValue() {}

// Float is a non-integer number. NaN and infinities cannot be serialized.
type Float float64

func (Float) metaValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) metaValue() {}

// List is an ordered list of values.
type List []Value

func (List) metaValue() {}

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: meta.NewMap(meta.P("ALE", meta.NewMap(meta.P("Tape", meta.String("A001")))))
func P(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// Map is an order-preserving mapping from string keys to values.
// Keys are unique; Set replaces an existing key in place.
type Map []Pair

func (Map) metaValue() {}

// NewMap creates a Map from pairs. Later duplicates replace earlier ones
// without changing the original position.
func NewMap(pairs ...Pair) Map {
	m := make(Map, 0, len(pairs))
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Len returns the number of keys.
func (m Map) Len() int { return len(m) }

// Get returns the value for key.
func (m Map) Get(key string) (Value, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set assigns key, keeping its position if it already exists.
func (m *Map) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = v
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: v})
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	*m = slices.DeleteFunc(*m, func(p Pair) bool { return p.Key == key })
}

// Keys returns keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// WithPath returns a deep copy of m with the value at path set to v.
// Every map along path except the last key must already exist; ok is false
// (and m is returned unchanged) otherwise.
func (m Map) WithPath(path []string, v Value) (Map, bool) {
	if len(path) == 0 {
		return m, false
	}
	out := m.Clone()
	if len(path) == 1 {
		out.Set(path[0], v)
		return out, true
	}
	child, found := out.Get(path[0])
	if !found {
		return m, false
	}
	childMap, isMap := child.(Map)
	if !isMap {
		return m, false
	}
	updated, ok := childMap.WithPath(path[1:], v)
	if !ok {
		return m, false
	}
	out.Set(path[0], updated)
	return out, true
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for i, p := range m {
		out[i] = Pair{Key: p.Key, Value: CloneValue(p.Value)}
	}
	return out
}

// CloneValue returns a deep copy of v.
func CloneValue(v Value) Value {
	switch val := v.(type) {
	case Map:
		return val.Clone()
	case List:
		out := make(List, len(val))
		for i, elem := range val {
			out[i] = CloneValue(elem)
		}
		return out
	case nil:
		return Null{}
	default:
		return val
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's string comparison uses UTF-8 bytes, which orders some keys differently.
func (m Map) SortedKeys() []string {
	keys := m.Keys()
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// MarshalJSON writes the map in insertion order.
func (m Map) MarshalJSON() ([]byte, error) {
	return MarshalValue(m)
}

// UnmarshalJSON reads a JSON object, keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case Map:
		*m = val
	case Null:
		*m = nil
	default:
		return fmt.Errorf("metadata must be an object, got %T", v)
	}
	return nil
}

// MarshalJSON writes the list.
func (l List) MarshalJSON() ([]byte, error) {
	return MarshalValue(l)
}

// MarshalValue marshals v to compact JSON in document order.
func MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		return writeString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		s, err := formatFloat(float64(val))
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Map:
		buf.WriteByte('{')
		for i, p := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, p.Value); err != nil {
				return fmt.Errorf("map[%q]: %w", p.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown metadata value type: %T", v)
	}
	return nil
}

// writeString writes a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// formatFloat renders integral floats without exponent or fraction and all
// others in shortest round-trip form.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot serialize non-finite number %v", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// UnmarshalValue decodes JSON into a Value, keeping object key order.
// Integral numbers become Int; other numbers become Float.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after metadata value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := Map{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("map[%q]: %w", key, err)
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			l := List{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("list[%d]: %w", len(l), err)
				}
				l = append(l, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	case json.Number:
		return numberValue(t)
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", n, err)
	}
	return Float(f), nil
}

// FromAny converts plain Go values (as produced by YAML or CUE decoders)
// into a Value. Go maps have no order, so their keys are sorted.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return Float(float64(val)), nil
		}
		return Int(val), nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) <= 1<<53 {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case float32:
		return FromAny(float64(val))
	case json.Number:
		return numberValue(val)
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := make(Map, 0, len(val))
		for _, k := range keys {
			conv, err := FromAny(val[k])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out = append(out, Pair{Key: k, Value: conv})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported metadata type: %T", v)
	}
}
