package cbor_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/contentauth/c2pa-cbor"
)

func TestEncodeURIScenario(t *testing.T) {
	// spec §8 scenario 5.
	var buf bytes.Buffer
	if err := cbor.EncodeURI(&buf, "https://example.com"); err != nil {
		t.Fatalf("EncodeURI: %v", err)
	}
	got := buf.Bytes()
	if got[0] != 0xd8 || got[1] != 0x20 || got[2] != 0x73 {
		t.Fatalf("head = % x, want d8 20 73...", got[:3])
	}
	if string(got[3:]) != "https://example.com" {
		t.Errorf("content = %q", got[3:])
	}

	back, err := cbor.DecodeURI(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("DecodeURI: %v", err)
	}
	if back != "https://example.com" {
		t.Errorf("got %q", back)
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	want := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := cbor.EncodeDateTime(&buf, want); err != nil {
		t.Fatalf("EncodeDateTime: %v", err)
	}
	if buf.Bytes()[0] != 0xc0 {
		t.Errorf("expected tag 0 head 0xc0, got %#x", buf.Bytes()[0])
	}
	back, err := cbor.DecodeDateTime(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeDateTime: %v", err)
	}
	if !back.Equal(want) {
		t.Errorf("got %v, want %v", back, want)
	}
}

func TestEpochRoundTripInteger(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()
	var buf bytes.Buffer
	if err := cbor.EncodeEpoch(&buf, want); err != nil {
		t.Fatalf("EncodeEpoch: %v", err)
	}
	if buf.Bytes()[0] != 0xc1 {
		t.Errorf("expected tag 1 head 0xc1, got %#x", buf.Bytes()[0])
	}
	back, err := cbor.DecodeEpoch(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeEpoch: %v", err)
	}
	if !back.Equal(want) {
		t.Errorf("got %v, want %v", back, want)
	}
}

func TestEpochRoundTripFractional(t *testing.T) {
	want := time.Unix(1700000000, 500_000_000).UTC()
	var buf bytes.Buffer
	if err := cbor.EncodeEpoch(&buf, want); err != nil {
		t.Fatalf("EncodeEpoch: %v", err)
	}
	back, err := cbor.DecodeEpoch(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeEpoch: %v", err)
	}
	if back.Unix() != want.Unix() {
		t.Errorf("got %v, want %v", back, want)
	}
}

func TestBase64PassThrough(t *testing.T) {
	// Deliberately not valid base64 padding: the codec must not reject or
	// alter it, per spec.md §9's pass-through open question.
	weird := "not-valid-base64!!!"

	var buf bytes.Buffer
	if err := cbor.EncodeBase64(&buf, weird); err != nil {
		t.Fatalf("EncodeBase64: %v", err)
	}
	if buf.Bytes()[0] != 0xd8 || buf.Bytes()[1] != 34 {
		t.Errorf("expected tag 34 head, got % x", buf.Bytes()[:2])
	}
	back, err := cbor.DecodeBase64(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBase64: %v", err)
	}
	if back != weird {
		t.Errorf("got %q, want %q (pass-through must preserve exactly)", back, weird)
	}
}

func TestBase64URLPassThrough(t *testing.T) {
	s := "abc-_="
	var buf bytes.Buffer
	if err := cbor.EncodeBase64URL(&buf, s); err != nil {
		t.Fatalf("EncodeBase64URL: %v", err)
	}
	back, err := cbor.DecodeBase64URL(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBase64URL: %v", err)
	}
	if back != s {
		t.Errorf("got %q, want %q", back, s)
	}
}

func TestWrongTagIsRejected(t *testing.T) {
	var buf bytes.Buffer
	if err := cbor.EncodeURI(&buf, "urn:x"); err != nil {
		t.Fatal(err)
	}
	if _, err := cbor.DecodeDateTime(bytes.NewReader(buf.Bytes())); err == nil {
		t.Error("expected an error decoding tag 32 content as tag 0")
	}
}
