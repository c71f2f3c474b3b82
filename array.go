// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import "bytes"

// ArrayShift returns the first element of a CBOR array (major type 4, not a
// text or byte string) as unparsed CBOR, and the rest as a CBOR-encoded
// array of one fewer elements. Trailing data past the array is left intact
// in remaining.
//
// If data is not a well-formed array, first is nil and remaining equals
// data unchanged. If data is an empty array, first is an empty, non-nil
// slice and remaining equals data unchanged.
func ArrayShift(data []byte) (first, remaining []byte) {
	if len(data) == 0 {
		panic("cbor: ArrayShift called with empty data")
	}

	dec := NewDecoder(bytes.NewReader(data))
	length, err := dec.UnwrapArray()
	if err != nil {
		return nil, data
	}
	if length == 0 {
		return []byte{}, data
	}

	first, err = dec.src.decodeRawItem()
	if err != nil {
		return nil, data
	}

	remaining = append(appendHead(nil, arrayMajorType, length-1), data[dec.src.offset:]...)
	return first, remaining
}
