// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

/*
Package cbor implements RFC 8949 Concise Binary Object Representation
(CBOR): a reflection-based encoder/decoder, the standard tag helpers (tags
0, 1, 32, 33, 34), and the RFC 8746 typed numeric array tags (64-71,
81-86).

Encoding always produces RFC 8949 "preferred serialization": the shortest
head argument width, and, when [Encoder.CompactFloats] is set, the shortest
of half/single/double that round-trips a float value exactly. Decoding
accepts any head width and both definite and indefinite-length containers,
collapsing indefinite length to definite in memory.

# Encoding

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	_ = enc.Encode(map[string]int{"a": 1, "b": 2})

Struct fields become CBOR map entries, keyed by field name unless a
`cbor:"name"` tag says otherwise. Fields tagged `cbor:",omitempty"` are
dropped from the map when zero-valued; `cbor:"-"` drops a field always.

	type Widget struct {
		ID    int    `cbor:"1"`
		Label string `cbor:"2,omitempty"`
	}

A `cbor` tag value that parses as an integer becomes an integer map key
(the convention used by CBOR-based protocols like COSE/CWT); any other
value is used as a string map key.

# Decoding

	var v map[string]int
	_ = cbor.Unmarshal(buf.Bytes(), &v)

[Decoder.UnknownFields] controls whether a map key with no matching struct
field is an error ([UnknownFieldError]) or silently discarded; the default
is to discard. A non-omittable struct field absent from the decoded map is
always a [MissingFieldError].

# Tags

[Tag] carries an arbitrary tag number and its content value. The
tags_standard.go helpers wrap the well-known tags: [EncodeDateTime] /
[DecodeDateTime] (tag 0), [EncodeEpoch] / [DecodeEpoch] (tag 1),
[EncodeURI] / [DecodeURI] (tag 32), [EncodeBase64URL] / [DecodeBase64URL]
(tag 33), and [EncodeBase64] / [DecodeBase64] (tag 34, pass-through, no
validation performed — see the note on [EncodeBase64]). Unknown
tag numbers are never a decode error at this layer: [Decoder.Untag] returns
the number and leaves the reader positioned at the content, which the
caller then decodes as usual.

# Typed arrays

The Encode/Decode function pairs in typedarray.go ([EncodeUint8Array],
[EncodeUint16Array], [EncodeUint32Array], [EncodeUint64Array],
[EncodeFloat32Array], [EncodeFloat64Array], and their Decode
counterparts) implement RFC 8746: a homogeneous numeric array encoded as
a tag-wrapped byte string whose element width and endianness are implied
by the tag number ([TagUint8Array] through [TagFloat64ArrayLE]), with no
per-element CBOR head.
*/
package cbor
