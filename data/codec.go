// Copyright (c) 2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawMessage is a raw encoded JSON value. It is re-exported here so
// callers of this package do not need a second json import to delay
// decoding of a message fragment.
type RawMessage = jsoniter.RawMessage

// Marshal returns the JSON encoding of v. The types of this package
// encode via their MarshalJSON methods; any other value encodes the
// way the standard library encodes it, honoring json struct tags.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent is like Marshal but indents the output. Each element
// begins on a new line starting with prefix followed by one or more
// copies of indent according to nesting depth.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON encoded data and stores the result in the
// value pointed to by v. Pointers to the types of this package decode
// via their UnmarshalJSON methods.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// NewEncoder returns an encoder that writes JSON text to w.
func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return json.NewEncoder(w)
}

// NewDecoder returns a decoder that reads JSON text from r.
func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return json.NewDecoder(r)
}
