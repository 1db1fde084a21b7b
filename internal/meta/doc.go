// Package meta provides the open metadata values attached to compositions.
//
// Metadata is an order-preserving mapping from string keys to a closed set of
// value kinds: Null, String, Int, Float, Bool, List and Map. Algorithms pass
// it through untouched; only the diff engine reads it (to blank out volatile
// fields before comparison).
//
// Two serializations exist:
//   - document order (MarshalJSON, MarshalYAML): keys in insertion order,
//     used for composition documents and diff rendering
//   - canonical (MarshalCanonical): RFC 8785 key order and NFC strings,
//     used only for content digests
//
// This package imports nothing internal.
package meta
