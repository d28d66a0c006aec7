// encoding.go: JSON and YAML serialization
//
// A map serializes as a plain object of key to value. Decoding replaces the
// contents; the slot layout of the decoded map depends only on the order in
// which keys are inserted, not on the layout of the map that was encoded.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package fixmap

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// MarshalJSON encodes the map as a JSON object. K must be usable as a JSON
// object key: a string, an integer or an encoding.TextMarshaler.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(m.plain())
	if err != nil {
		return nil, NewErrEncodeFailed(formatJSON, err)
	}
	return data, nil
}

// UnmarshalJSON replaces the contents of m with a decoded JSON object.
// A zero Map is first initialized with DefaultConfig. If the object holds more
// keys than the capacity, m is left unchanged and a FIXMAP_DECODE_FAILED
// error is returned.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	var decoded map[K]V
	if err := json.Unmarshal(data, &decoded); err != nil {
		return NewErrDecodeFailed(formatJSON, err)
	}
	return m.load(formatJSON, decoded)
}

// MarshalYAML implements yaml.Marshaler.
func (m *Map[K, V]) MarshalYAML() (interface{}, error) {
	return m.plain(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same rules as
// UnmarshalJSON.
func (m *Map[K, V]) UnmarshalYAML(node *yaml.Node) error {
	var decoded map[K]V
	if err := node.Decode(&decoded); err != nil {
		return NewErrDecodeFailed(formatYAML, err)
	}
	return m.load(formatYAML, decoded)
}

func (m *Map[K, V]) plain() map[K]V {
	out := make(map[K]V, len(m.entries))
	for i := range m.entries {
		out[m.entries[i].key] = m.entries[i].value
	}
	return out
}

// load replaces the contents of m with decoded.
func (m *Map[K, V]) load(format string, decoded map[K]V) error {
	capacity := len(m.slots)
	if m.slots == nil {
		capacity = DefaultConfig().Capacity
	}
	if len(decoded) > capacity {
		return NewErrTooManyEntries(format, len(decoded), capacity)
	}

	if m.slots == nil {
		fresh, err := New[K, V](DefaultConfig())
		if err != nil {
			return err
		}
		*m = *fresh
	}

	m.Clear()
	for k, v := range decoded {
		if _, _, err := m.Insert(k, v); err != nil {
			// unreachable: the size was checked above
			return NewErrDecodeFailed(format, err)
		}
	}
	return nil
}

var (
	_ json.Marshaler   = (*Map[string, int])(nil)
	_ json.Unmarshaler = (*Map[string, int])(nil)
	_ yaml.Marshaler   = (*Map[string, int])(nil)
	_ yaml.Unmarshaler = (*Map[string, int])(nil)
)
