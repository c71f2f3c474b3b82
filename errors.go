// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import "fmt"

// ErrUnsupportedType means that a value of this type cannot be encoded. A
// decode target that cannot hold the decoded major type is reported as a
// TypeMismatchError instead.
type ErrUnsupportedType struct {
	typeName string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.typeName)
}

// UnexpectedEndError means the input ended in the middle of an item.
type UnexpectedEndError struct {
	Offset int64
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("cbor: unexpected end of input at offset %d", e.Offset)
}

// MalformedError means the head or a structural byte violated the wire
// format: a reserved additional-info value, a stop code outside an
// indefinite-length container, a typed-array byte string whose length is
// not a multiple of the element width, or a reserved simple value.
type MalformedError struct {
	Offset int64
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("cbor: malformed input at offset %d: %s", e.Offset, e.Reason)
}

// InvalidUTF8Error means a text string's content is not well-formed UTF-8.
type InvalidUTF8Error struct {
	Offset int64
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("cbor: text string at offset %d is not valid UTF-8", e.Offset)
}

// OutOfRangeError means a decoded integer does not fit the destination's
// fixed-width type.
type OutOfRangeError struct {
	Offset int64
	Type   string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cbor: value at offset %d overflows %s", e.Offset, e.Type)
}

// TypeMismatchError means the decoded major type does not match what the
// reflection target expected.
type TypeMismatchError struct {
	Offset    int64
	Want, Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cbor: at offset %d: expected %s, got %s", e.Offset, e.Want, e.Got)
}

// MissingFieldError means a struct field with no cbor:",omitempty" option
// was absent from a decoded map.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cbor: missing required field %q", e.Field)
}

// UnknownFieldError means a decoded map key had no matching struct field
// and the decoder's UnknownFields policy is ErrorOnUnknownFields.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("cbor: unknown field %q", e.Field)
}

// IOError wraps a failure from the underlying sink or source. A failed
// allocation of a decode buffer is not reported as an IOError.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("cbor: io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// TrailingBytesError means bytes remained in the input after the outermost
// item was fully decoded.
type TrailingBytesError struct {
	Offset int64
	N      int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("cbor: %d trailing byte(s) after top-level item at offset %d", e.N, e.Offset)
}
