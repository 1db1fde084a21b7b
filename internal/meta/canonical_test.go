package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"float", Float(0.25), "0.25"},
		{"integral float", Float(2), "2"},
		{"bool true", Bool(true), "true"},
		{"null", Null{}, "null"},
		{"empty list", List{}, "[]"},
		{"empty map", Map{}, "{}"},
		{"list of ints", List{Int(1), Int(2), Int(3)}, "[1,2,3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	m := NewMap(
		P("zebra", Int(1)),
		P("alpha", Int(2)),
		P("nested", NewMap(P("b", Int(1)), P("a", Int(2)))),
	)

	result, err := MarshalCanonical(m)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"nested":{"a":2,"b":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as the surrogate pair 0xD800 0xDC00, which sorts
	// before U+E000 in UTF-16 but after it in UTF-8.
	m := NewMap(P("\uE000", Int(1)), P("\U00010000", Int(2)))

	result, err := MarshalCanonical(m)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(String("<script>a & b</script>"))
	require.NoError(t, err)
	assert.Equal(t, `"<script>a & b</script>"`, string(result))
	assert.NotContains(t, string(result), `\u003c`)
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to U+00E9.
	decomposed, err := MarshalCanonical(String("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(decomposed))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by the text u2028 stays escaped.
	result, err = MarshalCanonical(String(`x\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestDigestIgnoresKeyOrder(t *testing.T) {
	a := NewMap(P("name", String("cut")), P("count", Int(2)))
	b := NewMap(P("count", Int(2)), P("name", String("cut")))

	da, err := Digest(DomainDocument, a)
	require.NoError(t, err)
	db, err := Digest(DomainDocument, b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)

	other, err := Digest("other/domain/v1", a)
	require.NoError(t, err)
	assert.NotEqual(t, da, other, "domain separation")
}

func TestDocumentDigest(t *testing.T) {
	d1, err := DocumentDigest([]byte(`{"kind":"Timeline","name":"a"}`))
	require.NoError(t, err)
	d2, err := DocumentDigest([]byte("{\n  \"name\": \"a\",\n  \"kind\": \"Timeline\"\n}"))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	_, err = DocumentDigest([]byte(`{broken`))
	assert.Error(t, err)
}
