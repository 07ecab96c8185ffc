// Package codec provides the single canonical encoding used everywhere a
// cursor value is turned into a string: live-task list elements, shadow-key
// suffixes, retry-queue elements, and the stored cursor value itself.
//
// Routing every call site through Encode/Decode avoids a double-encoding
// trap: serializing the same value through JSON twice (or once, depending
// on the call site) produces mismatched keys like shadow:"20" next to
// shadow:20 that can never match each other. There is exactly one place a T
// becomes a string.
package codec

import (
	"encoding/json"
	"fmt"
)

// Encode serializes v to its canonical string form.
func Encode[T any](v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: encode: %w", err)
	}
	return string(b), nil
}

// Decode parses the canonical string form produced by Encode back into a T.
func Decode[T any](s string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return v, fmt.Errorf("codec: decode %q: %w", s, err)
	}
	return v, nil
}
