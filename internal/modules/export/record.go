// Package export turns dashboard datasets into downloadable CSV, JSON and
// MessagePack documents and writes them to the export directory.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNoRecords is returned when a format needs at least one record
var ErrNoRecords = errors.New("no records to export")

// Field is one key/value pair of a record
type Field struct {
	Key   string
	Value interface{}
}

// Record is a flat, ordered set of fields. Key order is the column order.
type Record []Field

// Keys returns the field keys in order
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Map returns the record as a map; order is lost
func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for _, f := range r {
		m[f.Key] = f.Value
	}
	return m
}

// MarshalJSON encodes the record as an object in field order, without HTML escaping
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := marshalNoEscape(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
