package cbor_test

import (
	"bytes"
	"testing"

	"github.com/contentauth/c2pa-cbor"
)

func TestEncodeUint32BEArrayScenario(t *testing.T) {
	// spec §8 scenario 6.
	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	if err := cbor.EncodeUint32Array(enc, []uint32{0x12345678, 0x9abcdef0, 0x11223344}, false); err != nil {
		t.Fatalf("EncodeUint32Array: %v", err)
	}
	want := []byte{
		0xd8, 0x42, 0x4c,
		0x12, 0x34, 0x56, 0x78,
		0x9a, 0xbc, 0xde, 0xf0,
		0x11, 0x22, 0x33, 0x44,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}

	dec := cbor.NewDecoder(bytes.NewReader(buf.Bytes()))
	back, err := cbor.DecodeUint32Array(dec)
	if err != nil {
		t.Fatalf("DecodeUint32Array: %v", err)
	}
	want32 := []uint32{0x12345678, 0x9abcdef0, 0x11223344}
	if len(back) != len(want32) {
		t.Fatalf("length %d, want %d", len(back), len(want32))
	}
	for i := range back {
		if back[i] != want32[i] {
			t.Errorf("element %d: got %#x, want %#x", i, back[i], want32[i])
		}
	}
}

func TestTypedArrayRoundTrips(t *testing.T) {
	t.Run("uint8", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []uint8{0, 1, 255}
		if err := cbor.EncodeUint8Array(enc, in); err != nil {
			t.Fatal(err)
		}
		if buf.Bytes()[0] != 0xd8 || buf.Bytes()[1] != byte(cbor.TagUint8Array) {
			t.Errorf("expected tag 64 head, got % x", buf.Bytes())
		}
		back, err := cbor.DecodeUint8Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(back, in) {
			t.Errorf("got %v, want %v", back, in)
		}
	})

	t.Run("uint16-le", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []uint16{0x0102, 0xffff, 0}
		if err := cbor.EncodeUint16Array(enc, in, true); err != nil {
			t.Fatal(err)
		}
		back, err := cbor.DecodeUint16Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %#x, want %#x", i, back[i], in[i])
			}
		}
	})

	t.Run("uint64-be", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []uint64{0, 1, 1 << 62}
		if err := cbor.EncodeUint64Array(enc, in, false); err != nil {
			t.Fatal(err)
		}
		back, err := cbor.DecodeUint64Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %#x, want %#x", i, back[i], in[i])
			}
		}
	})

	t.Run("float32-be", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []float32{0, 1.5, -3.25}
		if err := cbor.EncodeFloat32Array(enc, in, false); err != nil {
			t.Fatal(err)
		}
		back, err := cbor.DecodeFloat32Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %v, want %v", i, back[i], in[i])
			}
		}
	})

	t.Run("float64-le", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []float64{0, 1.5, -3.25}
		if err := cbor.EncodeFloat64Array(enc, in, true); err != nil {
			t.Fatal(err)
		}
		back, err := cbor.DecodeFloat64Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %v, want %v", i, back[i], in[i])
			}
		}
	})

	t.Run("float32-le", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []float32{0, 1.5, -3.25}
		if err := cbor.EncodeFloat32Array(enc, in, true); err != nil {
			t.Fatal(err)
		}
		if buf.Bytes()[0] != 0xd8 || buf.Bytes()[1] != byte(cbor.TagFloat32ArrayLE) {
			t.Fatalf("expected tag 85 head, got % x", buf.Bytes()[:2])
		}
		back, err := cbor.DecodeFloat32Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %v, want %v", i, back[i], in[i])
			}
		}
	})

	t.Run("float64-be", func(t *testing.T) {
		var buf bytes.Buffer
		enc := cbor.NewEncoder(&buf)
		in := []float64{0, 1.5, -3.25}
		if err := cbor.EncodeFloat64Array(enc, in, false); err != nil {
			t.Fatal(err)
		}
		if buf.Bytes()[0] != 0xd8 || buf.Bytes()[1] != byte(cbor.TagFloat64ArrayBE) {
			t.Fatalf("expected tag 82 head, got % x", buf.Bytes()[:2])
		}
		back, err := cbor.DecodeFloat64Array(cbor.NewDecoder(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		for i := range in {
			if back[i] != in[i] {
				t.Errorf("element %d: got %v, want %v", i, back[i], in[i])
			}
		}
	})
}

func TestFloatTypedArrayWireBytes(t *testing.T) {
	// Cross-checks the RFC 8746 tag/endianness pairing directly against the
	// wire bytes, independent of any internal decode path: tag 81 is
	// float32 big-endian, tag 82 is float64 big-endian, tag 85 is float32
	// little-endian, tag 86 is float64 little-endian.
	t.Run("float32-be tag and bytes", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cbor.EncodeFloat32Array(cbor.NewEncoder(&buf), []float32{1}, false); err != nil {
			t.Fatal(err)
		}
		want := []byte{0xd8, 81, 0x44, 0x3f, 0x80, 0x00, 0x00}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("got % x, want % x", buf.Bytes(), want)
		}
	})

	t.Run("float32-le tag and bytes", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cbor.EncodeFloat32Array(cbor.NewEncoder(&buf), []float32{1}, true); err != nil {
			t.Fatal(err)
		}
		want := []byte{0xd8, 85, 0x44, 0x00, 0x00, 0x80, 0x3f}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("got % x, want % x", buf.Bytes(), want)
		}
	})

	t.Run("float64-be tag and bytes", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cbor.EncodeFloat64Array(cbor.NewEncoder(&buf), []float64{1}, false); err != nil {
			t.Fatal(err)
		}
		want := []byte{0xd8, 82, 0x48, 0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("got % x, want % x", buf.Bytes(), want)
		}
	})

	t.Run("float64-le tag and bytes", func(t *testing.T) {
		var buf bytes.Buffer
		if err := cbor.EncodeFloat64Array(cbor.NewEncoder(&buf), []float64{1}, true); err != nil {
			t.Fatal(err)
		}
		want := []byte{0xd8, 86, 0x48, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("got % x, want % x", buf.Bytes(), want)
		}
	})
}

func TestTypedArrayTag68EquivalentToTag64(t *testing.T) {
	var buf64 bytes.Buffer
	if err := cbor.EncodeUint8Array(cbor.NewEncoder(&buf64), []uint8{5, 6, 7}); err != nil {
		t.Fatal(err)
	}

	// Same payload, but tagged 68 (u8LE) instead of 64 (u8): tag argument
	// differs, byte-string content is identical.
	wire68 := append([]byte{0xd8, byte(cbor.TagUint8ArrayLE)}, buf64.Bytes()[2:]...)

	back, err := cbor.DecodeUint8Array(cbor.NewDecoder(bytes.NewReader(wire68)))
	if err != nil {
		t.Fatalf("DecodeUint8Array(tag 68): %v", err)
	}
	if !bytes.Equal(back, []byte{5, 6, 7}) {
		t.Errorf("got %v, want [5 6 7]", back)
	}
}

func TestTypedArrayLengthNotMultipleOfWidth(t *testing.T) {
	// tag 66 (uint32 BE) with a 3-byte payload: not a multiple of 4.
	wire := []byte{0xd8, 0x42, 0x43, 0x01, 0x02, 0x03}
	_, err := cbor.DecodeUint32Array(cbor.NewDecoder(bytes.NewReader(wire)))
	if _, ok := err.(*cbor.MalformedError); !ok {
		t.Fatalf("expected MalformedError, got %v", err)
	}
}
