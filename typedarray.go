// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"encoding/binary"
	"math"
	"strconv"
)

// RFC 8746 typed-array tag numbers. Unsigned-integer arrays occupy 64-71:
// element width is 2^((tag-64) mod 4) bytes, big-endian for 64-67 and
// little-endian for 68-71 (68, the little-endian encoding of a
// single-byte element, is byte-for-byte identical to 64 and accepted as
// its equivalent on decode). Float arrays occupy 81 (float32 BE), 82
// (float64 BE), 85 (float32 LE), and 86 (float64 LE).
const (
	TagUint8Array      uint64 = 64
	TagUint16ArrayBE   uint64 = 65
	TagUint32ArrayBE   uint64 = 66
	TagUint64ArrayBE   uint64 = 67
	TagUint8ArrayLE    uint64 = 68
	TagUint16ArrayLE   uint64 = 69
	TagUint32ArrayLE   uint64 = 70
	TagUint64ArrayLE   uint64 = 71
	TagFloat32ArrayBE  uint64 = 81
	TagFloat64ArrayBE  uint64 = 82
	TagFloat32ArrayLE  uint64 = 85
	TagFloat64ArrayLE  uint64 = 86
)

// elementWidth returns the per-element byte width implied by a typed-array
// tag: 2^((tag-64) mod 4) for tags 64-71, and a direct table lookup for the
// float tags 81-86, to which that rule does not apply.
func elementWidth(tag uint64) (width int, ok bool) {
	switch tag {
	case TagUint8Array, TagUint8ArrayLE:
		return 1, true
	case TagUint16ArrayBE, TagUint16ArrayLE:
		return 2, true
	case TagUint32ArrayBE, TagUint32ArrayLE:
		return 4, true
	case TagUint64ArrayBE, TagUint64ArrayLE:
		return 8, true
	case TagFloat32ArrayBE, TagFloat32ArrayLE:
		return 4, true
	case TagFloat64ArrayBE, TagFloat64ArrayLE:
		return 8, true
	}
	return 0, false
}

func isLittleEndianTag(tag uint64) bool {
	switch tag {
	case TagUint8ArrayLE, TagUint16ArrayLE, TagUint32ArrayLE, TagUint64ArrayLE, TagFloat32ArrayLE, TagFloat64ArrayLE:
		return true
	}
	return false
}

// writeTypedArray writes tag, then a definite-length byte-string head sized
// for len(payload), then payload itself. Per spec, elements have no
// per-item CBOR head: the tagged byte string carries the raw element
// bytes at the width and endianness the tag number implies.
func (e *Encoder) writeTypedArray(tag uint64, payload []byte) error {
	if err := e.WriteTag(tag); err != nil {
		return err
	}
	if err := e.writeHead(byteStringMajorType, uint64(len(payload))); err != nil {
		return err
	}
	return e.write(payload)
}

// readTypedArrayPayload reads the byte-string payload that follows a
// typed-array tag (the caller has just consumed the tag with ReadTag),
// validates the payload length is a whole number of elements, and returns
// the payload with the element width.
func (d *Decoder) readTypedArrayPayload(tag uint64) ([]byte, int, error) {
	width, ok := elementWidth(tag)
	if !ok {
		return nil, 0, &TypeMismatchError{Offset: d.src.offset, Want: "typed-array tag", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	h, err := d.src.readHead()
	if err != nil {
		return nil, 0, err
	}
	if h.major != byteStringMajorType {
		return nil, 0, &TypeMismatchError{Offset: d.src.offset, Want: "byte string", Got: majorTypeName(h.major)}
	}
	payload, err := d.src.readStringContent(h)
	if err != nil {
		return nil, 0, err
	}
	if len(payload)%width != 0 {
		return nil, 0, &MalformedError{Offset: d.src.offset, Reason: "typed-array byte string length is not a multiple of the element width"}
	}
	return payload, width, nil
}

// EncodeUint8Array writes v as a tag-64 typed array.
func EncodeUint8Array(e *Encoder, v []uint8) error {
	return e.writeTypedArray(TagUint8Array, v)
}

// DecodeUint8Array reads a tag-64 (or its tag-68 equivalent) typed array.
func DecodeUint8Array(d *Decoder) ([]uint8, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	if tag != TagUint8Array && tag != TagUint8ArrayLE {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 64 or 68", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	payload, _, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(payload))
	copy(out, payload)
	return out, nil
}

// EncodeUint16Array writes v as a tag-65 (big-endian) or tag-69
// (little-endian) typed array.
func EncodeUint16Array(e *Encoder, v []uint16, littleEndian bool) error {
	payload := make([]byte, len(v)*2)
	for i, x := range v {
		if littleEndian {
			binary.LittleEndian.PutUint16(payload[i*2:], x)
		} else {
			binary.BigEndian.PutUint16(payload[i*2:], x)
		}
	}
	tag := TagUint16ArrayBE
	if littleEndian {
		tag = TagUint16ArrayLE
	}
	return e.writeTypedArray(tag, payload)
}

// DecodeUint16Array reads a tag-65/69 typed array.
func DecodeUint16Array(d *Decoder) ([]uint16, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	payload, width, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	if width != 2 {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 65 or 69", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	le := isLittleEndianTag(tag)
	out := make([]uint16, len(payload)/2)
	for i := range out {
		if le {
			out[i] = binary.LittleEndian.Uint16(payload[i*2:])
		} else {
			out[i] = binary.BigEndian.Uint16(payload[i*2:])
		}
	}
	return out, nil
}

// EncodeUint32Array writes v as a tag-66 (big-endian) or tag-70
// (little-endian) typed array.
func EncodeUint32Array(e *Encoder, v []uint32, littleEndian bool) error {
	payload := make([]byte, len(v)*4)
	for i, x := range v {
		if littleEndian {
			binary.LittleEndian.PutUint32(payload[i*4:], x)
		} else {
			binary.BigEndian.PutUint32(payload[i*4:], x)
		}
	}
	tag := TagUint32ArrayBE
	if littleEndian {
		tag = TagUint32ArrayLE
	}
	return e.writeTypedArray(tag, payload)
}

// DecodeUint32Array reads a tag-66/70 typed array.
func DecodeUint32Array(d *Decoder) ([]uint32, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	payload, width, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	if width != 4 || (tag != TagUint32ArrayBE && tag != TagUint32ArrayLE) {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 66 or 70", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	le := isLittleEndianTag(tag)
	out := make([]uint32, len(payload)/4)
	for i := range out {
		if le {
			out[i] = binary.LittleEndian.Uint32(payload[i*4:])
		} else {
			out[i] = binary.BigEndian.Uint32(payload[i*4:])
		}
	}
	return out, nil
}

// EncodeUint64Array writes v as a tag-67 (big-endian) or tag-71
// (little-endian) typed array.
func EncodeUint64Array(e *Encoder, v []uint64, littleEndian bool) error {
	payload := make([]byte, len(v)*8)
	for i, x := range v {
		if littleEndian {
			binary.LittleEndian.PutUint64(payload[i*8:], x)
		} else {
			binary.BigEndian.PutUint64(payload[i*8:], x)
		}
	}
	tag := TagUint64ArrayBE
	if littleEndian {
		tag = TagUint64ArrayLE
	}
	return e.writeTypedArray(tag, payload)
}

// DecodeUint64Array reads a tag-67/71 typed array.
func DecodeUint64Array(d *Decoder) ([]uint64, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	payload, width, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	if width != 8 || (tag != TagUint64ArrayBE && tag != TagUint64ArrayLE) {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 67 or 71", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	le := isLittleEndianTag(tag)
	out := make([]uint64, len(payload)/8)
	for i := range out {
		if le {
			out[i] = binary.LittleEndian.Uint64(payload[i*8:])
		} else {
			out[i] = binary.BigEndian.Uint64(payload[i*8:])
		}
	}
	return out, nil
}

// EncodeFloat32Array writes v as a tag-81 (big-endian) or tag-85
// (little-endian) typed array.
func EncodeFloat32Array(e *Encoder, v []float32, littleEndian bool) error {
	payload := make([]byte, len(v)*4)
	for i, x := range v {
		bits := math.Float32bits(x)
		if littleEndian {
			binary.LittleEndian.PutUint32(payload[i*4:], bits)
		} else {
			binary.BigEndian.PutUint32(payload[i*4:], bits)
		}
	}
	tag := TagFloat32ArrayBE
	if littleEndian {
		tag = TagFloat32ArrayLE
	}
	return e.writeTypedArray(tag, payload)
}

// DecodeFloat32Array reads a tag-81/85 typed array.
func DecodeFloat32Array(d *Decoder) ([]float32, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	payload, width, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	if width != 4 || (tag != TagFloat32ArrayBE && tag != TagFloat32ArrayLE) {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 81 or 85", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	le := isLittleEndianTag(tag)
	out := make([]float32, len(payload)/4)
	for i := range out {
		var bits uint32
		if le {
			bits = binary.LittleEndian.Uint32(payload[i*4:])
		} else {
			bits = binary.BigEndian.Uint32(payload[i*4:])
		}
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// EncodeFloat64Array writes v as a tag-82 (big-endian) or tag-86
// (little-endian) typed array.
func EncodeFloat64Array(e *Encoder, v []float64, littleEndian bool) error {
	payload := make([]byte, len(v)*8)
	for i, x := range v {
		bits := math.Float64bits(x)
		if littleEndian {
			binary.LittleEndian.PutUint64(payload[i*8:], bits)
		} else {
			binary.BigEndian.PutUint64(payload[i*8:], bits)
		}
	}
	tag := TagFloat64ArrayBE
	if littleEndian {
		tag = TagFloat64ArrayLE
	}
	return e.writeTypedArray(tag, payload)
}

// DecodeFloat64Array reads a tag-82/86 typed array.
func DecodeFloat64Array(d *Decoder) ([]float64, error) {
	tag, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	payload, width, err := d.readTypedArrayPayload(tag)
	if err != nil {
		return nil, err
	}
	if width != 8 || (tag != TagFloat64ArrayBE && tag != TagFloat64ArrayLE) {
		return nil, &TypeMismatchError{Offset: d.src.offset, Want: "tag 82 or 86", Got: "tag " + strconv.FormatUint(tag, 10)}
	}
	le := isLittleEndianTag(tag)
	out := make([]float64, len(payload)/8)
	for i := range out {
		var bits uint64
		if le {
			bits = binary.LittleEndian.Uint64(payload[i*8:])
		} else {
			bits = binary.BigEndian.Uint64(payload[i*8:])
		}
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}
