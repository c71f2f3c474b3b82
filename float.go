// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// canonicalNaNHalfBits is the canonical quiet NaN with a zero payload,
// encoded at half precision, per spec.md §4.4's "canonical emission uses a
// quiet NaN with zero payload".
const canonicalNaNHalfBits uint16 = 0x7e00

// encodeFloat writes f as CBOR major 7. When e.CompactFloats is set, the
// shortest of half/single/double that round-trips f exactly is chosen
// (RFC 8949 preferred serialization); otherwise double precision is always
// used.
func (e *Encoder) encodeFloat(f float64) error {
	if math.IsNaN(f) {
		if e.CompactFloats {
			return e.writeFloatBits(halfFloat, uint64(canonicalNaNHalfBits))
		}
		return e.writeFloatBits(doubleFloat, math.Float64bits(math.NaN()))
	}
	if !e.CompactFloats {
		return e.writeFloatBits(doubleFloat, math.Float64bits(f))
	}

	if bits, ok := float64ToHalfExact(f); ok {
		return e.writeFloatBits(halfFloat, uint64(bits))
	}
	if f32 := float32(f); float64(f32) == f {
		return e.writeFloatBits(singleFloat, uint64(math.Float32bits(f32)))
	}
	return e.writeFloatBits(doubleFloat, math.Float64bits(f))
}

// float64ToHalfExact reports whether f is exactly representable at IEEE-754
// binary16 precision and, if so, returns its bit pattern. The round trip is
// compared bit-for-bit (not by ==) so that a signed zero is not silently
// widened to the other sign.
func float64ToHalfExact(f float64) (uint16, bool) {
	f32 := float32(f)
	if float64(f32) != f {
		return 0, false
	}
	h := float16.Fromfloat32(f32)
	back := h.Float32()
	if math.Float32bits(back) != math.Float32bits(f32) {
		return 0, false
	}
	return h.Bits(), true
}

func (e *Encoder) writeFloatBits(info byte, bits uint64) error {
	bufp := headScratchPool.Get().(*[]byte)
	defer headScratchPool.Put(bufp)
	buf := append((*bufp)[:0], simpleMajorType<<5|info)
	switch info {
	case halfFloat:
		buf = binary.BigEndian.AppendUint16(buf, uint16(bits))
	case singleFloat:
		buf = binary.BigEndian.AppendUint32(buf, uint32(bits))
	case doubleFloat:
		buf = binary.BigEndian.AppendUint64(buf, bits)
	}
	*bufp = buf
	return e.write(buf)
}

// decodeFloatBits converts a decoded head carrying raw float bits (major 7,
// info 25/26/27) to a float64, widening half and single precision per
// IEEE-754. The x448/float16 conversion handles subnormals, zero, infinity,
// and NaN payload widening correctly; it is the reference implementation
// used by the ecosystem's production CBOR codec for the same purpose.
func decodeFloatBits(h head) (float64, error) {
	switch h.info {
	case halfFloat:
		return float64(float16.Frombits(uint16(h.arg)).Float32()), nil
	case singleFloat:
		return float64(math.Float32frombits(uint32(h.arg))), nil
	case doubleFloat:
		return math.Float64frombits(h.arg), nil
	default:
		return 0, &MalformedError{Reason: "not a float head"}
	}
}
