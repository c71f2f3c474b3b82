// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import "encoding/binary"

// readStringContent reads the content of a byte or text string head,
// collapsing an indefinite-length string (a sequence of definite-length
// chunks of the same major type, terminated by the stop code) into a
// single contiguous buffer.
func (s *source) readStringContent(h head) ([]byte, error) {
	if !h.indefinite {
		n, err := checkLength(h.arg, s.offset)
		if err != nil {
			return nil, err
		}
		return s.readFull(n)
	}

	var buf []byte
	for {
		stop, err := s.checkStop()
		if err != nil {
			return nil, err
		}
		if stop {
			break
		}
		chunk, err := s.readHead()
		if err != nil {
			return nil, err
		}
		if chunk.major != h.major || chunk.indefinite {
			return nil, &MalformedError{Offset: s.offset, Reason: "indefinite string chunk has the wrong major type"}
		}
		n, err := checkLength(chunk.arg, s.offset)
		if err != nil {
			return nil, err
		}
		part, err := s.readFull(n)
		if err != nil {
			return nil, err
		}
		buf = append(buf, part...)
	}
	if buf == nil {
		buf = []byte{}
	}
	return buf, nil
}

// decodeRawItem reads one complete CBOR item and returns its re-encoded,
// definite-length bytes: indefinite-length strings and containers are
// collapsed to their definite form, per spec.md §4.3/§6.
func (s *source) decodeRawItem() ([]byte, error) {
	h, err := s.readHead()
	if err != nil {
		return nil, err
	}
	return s.decodeRawFromHead(h)
}

func (s *source) decodeRawFromHead(h head) ([]byte, error) {
	switch h.major {
	case unsignedIntMajorType, negativeIntMajorType:
		return appendHead(nil, h.major, h.arg), nil

	case byteStringMajorType, textStringMajorType:
		b, err := s.readStringContent(h)
		if err != nil {
			return nil, err
		}
		return append(appendHead(nil, h.major, uint64(len(b))), b...), nil

	case arrayMajorType:
		var items [][]byte
		if h.indefinite {
			for {
				stop, err := s.checkStop()
				if err != nil {
					return nil, err
				}
				if stop {
					break
				}
				item, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
		} else {
			n, err := checkLength(h.arg, s.offset)
			if err != nil {
				return nil, err
			}
			items = make([][]byte, n)
			for i := range n {
				item, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				items[i] = item
			}
		}
		out := appendHead(nil, arrayMajorType, uint64(len(items)))
		for _, it := range items {
			out = append(out, it...)
		}
		return out, nil

	case mapMajorType:
		var items [][]byte
		if h.indefinite {
			for {
				stop, err := s.checkStop()
				if err != nil {
					return nil, err
				}
				if stop {
					break
				}
				k, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				v, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				items = append(items, k, v)
			}
		} else {
			n, err := checkLength(h.arg, s.offset)
			if err != nil {
				return nil, err
			}
			items = make([][]byte, 0, n*2)
			for range n {
				k, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				v, err := s.decodeRawItem()
				if err != nil {
					return nil, err
				}
				items = append(items, k, v)
			}
		}
		out := appendHead(nil, mapMajorType, uint64(len(items)/2))
		for _, it := range items {
			out = append(out, it...)
		}
		return out, nil

	case tagMajorType:
		content, err := s.decodeRawItem()
		if err != nil {
			return nil, err
		}
		return append(appendHead(nil, tagMajorType, h.arg), content...), nil

	case simpleMajorType:
		switch h.info {
		case oneByteAdditional:
			return []byte{h.major<<5 | h.info, byte(h.arg)}, nil
		case halfFloat:
			return binary.BigEndian.AppendUint16([]byte{h.major<<5 | h.info}, uint16(h.arg)), nil
		case singleFloat:
			return binary.BigEndian.AppendUint32([]byte{h.major<<5 | h.info}, uint32(h.arg)), nil
		case doubleFloat:
			return binary.BigEndian.AppendUint64([]byte{h.major<<5 | h.info}, h.arg), nil
		default:
			return []byte{h.major<<5 | h.info}, nil
		}
	}
	panic("unreachable: major type is 3 bits")
}
