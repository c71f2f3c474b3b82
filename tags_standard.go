// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"io"
	"time"
)

// Standard tag numbers from RFC 8949 §3.4.
const (
	TagDateTime    uint64 = 0
	TagEpoch       uint64 = 1
	TagURI         uint64 = 32
	TagBase64URL   uint64 = 33
	TagBase64      uint64 = 34
)

// EncodeDateTime writes t as a tag-0 RFC 3339 date-time.
func EncodeDateTime(w io.Writer, t time.Time) error {
	return encodeStandardTag(w, TagDateTime, t.UTC().Format(time.RFC3339Nano))
}

// DecodeDateTime reads a tag-0 RFC 3339 date-time.
func DecodeDateTime(r io.Reader) (time.Time, error) {
	var s string
	if err := decodeStandardTag(r, TagDateTime, &s); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cbor: tag 0 content is not RFC 3339: %w", err)
	}
	return t, nil
}

// EncodeEpoch writes t as a tag-1 POSIX timestamp: an integer number of
// seconds when t has no sub-second component, otherwise a float64.
func EncodeEpoch(w io.Writer, t time.Time) error {
	if ns := t.Nanosecond(); ns != 0 {
		return encodeStandardTag(w, TagEpoch, float64(t.UnixNano())/1e9)
	}
	return encodeStandardTag(w, TagEpoch, t.Unix())
}

// DecodeEpoch reads a tag-1 POSIX timestamp, either an integer or a float
// number of seconds since the Unix epoch.
func DecodeEpoch(r io.Reader) (time.Time, error) {
	var v any
	if err := decodeStandardTag(r, TagEpoch, &v); err != nil {
		return time.Time{}, err
	}
	switch n := v.(type) {
	case int64:
		return time.Unix(n, 0).UTC(), nil
	case float64:
		sec := int64(n)
		nsec := int64((n - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cbor: tag 1 content is neither integer nor float")
	}
}

// EncodeURI writes uri as a tag-32 text string.
func EncodeURI(w io.Writer, uri string) error {
	return encodeStandardTag(w, TagURI, uri)
}

// DecodeURI reads a tag-32 URI text string.
func DecodeURI(r io.Reader) (string, error) {
	var s string
	err := decodeStandardTag(r, TagURI, &s)
	return s, err
}

// EncodeBase64URL writes s as a tag-33 base64url text string. s is passed
// through verbatim: no base64url validation or re-encoding is performed.
func EncodeBase64URL(w io.Writer, s string) error {
	return encodeStandardTag(w, TagBase64URL, s)
}

// DecodeBase64URL reads a tag-33 base64url text string, verbatim.
func DecodeBase64URL(r io.Reader) (string, error) {
	var s string
	err := decodeStandardTag(r, TagBase64URL, &s)
	return s, err
}

// EncodeBase64 writes s as a tag-34 base64 text string. s is passed
// through verbatim: no base64 validation or re-encoding is performed. This
// is intentional (see package doc): rejecting non-canonical but valid
// historical base64 payloads is a decision left to a layer above the
// codec, not made here.
func EncodeBase64(w io.Writer, s string) error {
	return encodeStandardTag(w, TagBase64, s)
}

// DecodeBase64 reads a tag-34 base64 text string, verbatim.
func DecodeBase64(r io.Reader) (string, error) {
	var s string
	err := decodeStandardTag(r, TagBase64, &s)
	return s, err
}

func encodeStandardTag(w io.Writer, num uint64, content any) error {
	enc := NewEncoder(w)
	if err := enc.WriteTag(num); err != nil {
		return err
	}
	return enc.Encode(content)
}

func decodeStandardTag(r io.Reader, want uint64, out any) error {
	dec := NewDecoder(r)
	got, err := dec.ReadTag()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("cbor: expected tag %d, got tag %d", want, got)
	}
	return dec.Decode(out)
}
