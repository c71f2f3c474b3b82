// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"slices"
)

// Tag is a tagged CBOR value: a tag number and its content.
type Tag[T any] struct {
	Num uint64
	Val T
}

func (Tag[T]) isTag() {}

// Number implements TagData.
func (t Tag[T]) Number() uint64 { return t.Num }

// Value implements TagData.
func (t Tag[T]) Value() any { return t.Val }

// TagData allows read-only access to a Tag without its value type.
type TagData interface {
	isTag()
	Number() uint64
	Value() any
}

// WriteTag writes a tag head for tag number t. The caller must follow this
// with exactly one Encode call for the tag's content; the two calls
// together form spec.md §4.5's "write_tag(t) ... leaves the writer
// positioned for the content value".
func (e *Encoder) WriteTag(t uint64) error {
	return e.writeHead(tagMajorType, t)
}

// ReadTag consumes a tag head and returns its number, leaving the decoder
// positioned at the content value, which the caller decodes next. This is
// spec.md §4.5's read_tag(): unknown tag numbers are never an error here,
// since interpretation is up to the caller.
func (d *Decoder) ReadTag() (uint64, error) {
	h, err := d.src.readHead()
	if err != nil {
		return 0, err
	}
	if h.major != tagMajorType {
		return 0, &TypeMismatchError{Offset: d.src.offset, Want: "tag", Got: majorTypeName(h.major)}
	}
	return h.arg, nil
}

func majorTypeName(major byte) string {
	switch major {
	case unsignedIntMajorType:
		return "unsigned integer"
	case negativeIntMajorType:
		return "negative integer"
	case byteStringMajorType:
		return "byte string"
	case textStringMajorType:
		return "text string"
	case arrayMajorType:
		return "array"
	case mapMajorType:
		return "map"
	case tagMajorType:
		return "tag"
	case simpleMajorType:
		return "simple/float"
	}
	return "unknown"
}

// ErrNullOrUndefined is wrapped and returned by Unwrap/Untag helpers when
// the next value is null or undefined instead of the expected major type.
var ErrNullOrUndefined = fmt.Errorf("cbor: null or undefined")

// UnwrapArray ensures the next value is a definite-length array and returns
// its length, leaving the decoder positioned at the first element. An
// indefinite-length array fails with a MalformedError; Decode into a
// slice/array accepts both forms.
func (d *Decoder) UnwrapArray() (uint64, error) { return d.unwrap(arrayMajorType) }

// UnwrapBytes ensures the next value is a definite-length byte or text
// string and returns its length, leaving the decoder positioned at the
// content bytes.
func (d *Decoder) UnwrapBytes() (uint64, error) {
	return d.unwrap(byteStringMajorType, textStringMajorType)
}

// Untag is ReadTag with ErrNullOrUndefined handling; kept for symmetry
// with UnwrapArray/UnwrapBytes.
func (d *Decoder) Untag() (uint64, error) { return d.unwrap(tagMajorType) }

func (d *Decoder) unwrap(allowed ...byte) (uint64, error) {
	h, err := d.src.readHead()
	if err != nil {
		return 0, err
	}
	if h.major == simpleMajorType && !h.indefinite && (h.info == nullVal || h.info == undefinedVal) {
		return 0, fmt.Errorf("cbor: %w", ErrNullOrUndefined)
	}
	if !slices.Contains(allowed, h.major) {
		return 0, &TypeMismatchError{Offset: d.src.offset, Want: majorTypeNamesJoined(allowed), Got: majorTypeName(h.major)}
	}
	if h.indefinite {
		return 0, &MalformedError{Offset: d.src.offset, Reason: "indefinite length not supported by this low-level accessor"}
	}
	return h.arg, nil
}

func majorTypeNamesJoined(majors []byte) string {
	names := make([]string, len(majors))
	for i, m := range majors {
		names[i] = majorTypeName(m)
	}
	if len(names) == 1 {
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += " or " + n
	}
	return out
}
