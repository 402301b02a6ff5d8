package hgschema

import (
	gojson "github.com/goccy/go-json"
)

// Marshal serializes a model value. Optional fields that are nil are omitted.
func Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// MarshalIndent is Marshal with indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// ToValue converts a model value into the generic value tree produced by
// Decode, which is what Schema.Parse accepts.
func ToValue(v any) (any, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(b)
}
