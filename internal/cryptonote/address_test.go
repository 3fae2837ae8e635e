package cryptonote

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	var spend, view [32]byte
	spend[0] = 1
	view[0] = 2

	enc := EncodeAddress(spend, view)
	gotSpend, gotView, err := DecodeAddress(enc)
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if gotSpend != spend || gotView != view {
		t.Fatal("decoded keys do not match encoded input")
	}
}

func TestDecodeAddressRejectsBadChecksum(t *testing.T) {
	var spend, view [32]byte
	enc := EncodeAddress(spend, view)
	// Flip a character well inside the payload to corrupt the checksum.
	corrupted := []byte(enc)
	corrupted[5] = corrupted[5] + 1
	if corrupted[5] == enc[5] {
		corrupted[5] = corrupted[5] + 1
	}
	_, _, err := DecodeAddress(string(corrupted))
	if err == nil {
		t.Fatal("expected checksum mismatch to fail")
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	_, _, err := DecodeAddress("not-base58!!")
	if err == nil {
		t.Fatal("expected invalid base58 to fail")
	}
}
