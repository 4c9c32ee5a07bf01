package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Metadata is a tagged parse result for caller-supplied document metadata:
// either Parsed (holding normalized JSON text) or Absent. Unparsable input
// collapses to Absent; a bad metadata value never fails an upload and never
// puts invalid JSON into the store.
type Metadata struct {
	value   string
	present bool
}

// AbsentMetadata is the zero metadata value.
func AbsentMetadata() Metadata { return Metadata{} }

// ParsedMetadata wraps already-normalized JSON text.
func ParsedMetadata(jsonText string) Metadata {
	return Metadata{value: jsonText, present: true}
}

// ParseMetadata normalizes caller input to JSON text.
//
// Callers may send a structured JSON value or a pre-serialized JSON string;
// both normalize to compact JSON text. Empty input and input that is not
// valid JSON (including a JSON string whose contents are not themselves
// valid JSON) yield Absent.
func ParseMetadata(raw []byte) Metadata {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return Metadata{}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Metadata{}
	}

	// A JSON string is treated as pre-serialized metadata: its contents must
	// themselves be JSON text.
	if s, ok := v.(string); ok {
		return ParseMetadata([]byte(s))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Metadata{}
	}
	return Metadata{value: buf.String(), present: true}
}

// ParseMetadataString normalizes a form-field value.
func ParseMetadataString(s string) Metadata {
	return ParseMetadata([]byte(strings.TrimSpace(s)))
}

// Present reports whether a value was parsed.
func (m Metadata) Present() bool { return m.present }

// JSON returns the normalized JSON text; empty string when absent.
func (m Metadata) JSON() string { return m.value }

// Ptr returns the stored representation: the JSON text, or nil when absent.
func (m Metadata) Ptr() *string {
	if !m.present {
		return nil
	}
	v := m.value
	return &v
}
