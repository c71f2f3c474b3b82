// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"
)

// Major types (high 3 bits of the head byte).
const (
	unsignedIntMajorType byte = 0x00
	negativeIntMajorType byte = 0x01
	byteStringMajorType  byte = 0x02
	textStringMajorType  byte = 0x03
	arrayMajorType       byte = 0x04
	mapMajorType         byte = 0x05
	tagMajorType         byte = 0x06
	simpleMajorType      byte = 0x07
)

// Additional info (low 5 bits of the head byte).
const (
	oneByteAdditional    byte = 0x18
	twoBytesAdditional   byte = 0x19
	fourBytesAdditional  byte = 0x1a
	eightBytesAdditional byte = 0x1b
	indefiniteAdditional byte = 0x1f
)

// Well-known simple values (major 7, info 20-23) and the float widths
// (major 7, info 25-27).
const (
	falseVal     byte = 0x14
	trueVal      byte = 0x15
	nullVal      byte = 0x16
	undefinedVal byte = 0x17
	halfFloat    byte = twoBytesAdditional
	singleFloat  byte = fourBytesAdditional
	doubleFloat  byte = eightBytesAdditional
)

// stopCode is the byte that terminates an indefinite-length container or
// string: major 7, info 31.
const stopCode byte = 0xff

const fiveBitMask byte = 0x1f

// MaxDecodeLength limits the declared length of an array, map (counted in
// key/value pairs), byte string, or text string accepted on decode. It guards
// against a maliciously small input claiming to expand to an enormous
// allocation.
const MaxDecodeLength = 100_000_000

// headScratchPool reuses the small buffer used to build a head (at most 1
// byte of prefix plus 8 bytes of big-endian argument). Reuse avoids an
// allocation on every encoded item.
var headScratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 9)
		return &b
	},
}

// appendHead appends the minimal-width encoding of a head with the given
// major type and argument to buf, per RFC 8949 preferred serialization.
func appendHead(buf []byte, major byte, arg uint64) []byte {
	b0 := major << 5
	switch {
	case arg < 24:
		return append(buf, b0|byte(arg))
	case arg <= 0xff:
		return append(buf, b0|oneByteAdditional, byte(arg))
	case arg <= 0xffff:
		return binary.BigEndian.AppendUint16(append(buf, b0|twoBytesAdditional), uint16(arg))
	case arg <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(buf, b0|fourBytesAdditional), uint32(arg))
	default:
		return binary.BigEndian.AppendUint64(append(buf, b0|eightBytesAdditional), arg)
	}
}

// writeHead writes a head using a pooled scratch buffer, guaranteeing its
// release on every exit path.
func (e *Encoder) writeHead(major byte, arg uint64) error {
	bufp := headScratchPool.Get().(*[]byte)
	defer headScratchPool.Put(bufp)
	*bufp = appendHead((*bufp)[:0], major, arg)
	return e.write(*bufp)
}

// head is the decoded form of a CBOR initial byte plus any follow-up
// argument bytes.
type head struct {
	major      byte
	info       byte
	arg        uint64 // valid unless indefinite; for major 7 info 25-27, arg holds raw float bits
	indefinite bool
}

// source is the byte-source abstraction of spec.md §4.1: a forward cursor
// with a one-byte lookahead (used to detect indefinite-length stop codes)
// and a running offset used to annotate errors.
type source struct {
	r      *bufio.Reader
	offset int64
}

func newSource(r io.Reader) *source {
	if br, ok := r.(*bufio.Reader); ok {
		return &source{r: br}
	}
	return &source{r: bufio.NewReader(r)}
}

func (s *source) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, s.ioErr(err)
	}
	s.offset++
	return b, nil
}

func (s *source) readFull(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.r, buf)
	s.offset += int64(read)
	if err != nil {
		return nil, s.ioErr(err)
	}
	return buf, nil
}

// peekByte returns the next byte without advancing the cursor.
func (s *source) peekByte() (byte, error) {
	b, err := s.r.Peek(1)
	if err != nil {
		return 0, s.ioErr(err)
	}
	return b[0], nil
}

func (s *source) ioErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &UnexpectedEndError{Offset: s.offset}
	}
	return &IOError{Err: err}
}

// readHead reads one head from the source. When info is indefiniteAdditional,
// arg is meaningless and indefinite is true; this is accepted only for
// majors 2-5, and any other major with info 31 (including a bare stop code)
// fails with a MalformedError.
func (s *source) readHead() (head, error) {
	b, err := s.readByte()
	if err != nil {
		return head{}, err
	}
	major := b >> 5
	info := b & fiveBitMask

	switch {
	case info < oneByteAdditional:
		return head{major: major, info: info, arg: uint64(info)}, nil
	case info == oneByteAdditional:
		buf, err := s.readFull(1)
		if err != nil {
			return head{}, err
		}
		return head{major: major, info: info, arg: uint64(buf[0])}, nil
	case info == twoBytesAdditional:
		buf, err := s.readFull(2)
		if err != nil {
			return head{}, err
		}
		return head{major: major, info: info, arg: uint64(binary.BigEndian.Uint16(buf))}, nil
	case info == fourBytesAdditional:
		buf, err := s.readFull(4)
		if err != nil {
			return head{}, err
		}
		return head{major: major, info: info, arg: uint64(binary.BigEndian.Uint32(buf))}, nil
	case info == eightBytesAdditional:
		buf, err := s.readFull(8)
		if err != nil {
			return head{}, err
		}
		return head{major: major, info: info, arg: binary.BigEndian.Uint64(buf)}, nil
	case info == indefiniteAdditional:
		switch major {
		case byteStringMajorType, textStringMajorType, arrayMajorType, mapMajorType:
			return head{major: major, info: info, indefinite: true}, nil
		default:
			// Major 7 info 31 is the stop code, only meaningful where
			// checkStop peeks for it; majors 0, 1, 6 never take it.
			return head{}, &MalformedError{Offset: s.offset - 1, Reason: "indefinite length not valid for this major type"}
		}
	default: // 28, 29, 30: reserved
		return head{}, &MalformedError{Offset: s.offset - 1, Reason: "reserved additional information value"}
	}
}

// checkStop peeks for the indefinite-length stop code (major 7, info 31,
// i.e. byte 0xff) and consumes it if present.
func (s *source) checkStop() (bool, error) {
	b, err := s.peekByte()
	if err != nil {
		return false, err
	}
	if b != stopCode {
		return false, nil
	}
	if _, err := s.readByte(); err != nil {
		return false, err
	}
	return true, nil
}

func checkLength(n uint64, offset int64) (int, error) {
	if n > MaxDecodeLength {
		return 0, &MalformedError{Offset: offset, Reason: "declared length exceeds maximum decode length"}
	}
	return int(n), nil
}
