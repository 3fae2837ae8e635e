package cryptonote

import (
	"crypto/rand"
	"testing"

	"filippo.io/edwards25519"
)

func randomScalar(t *testing.T) (*edwards25519.Scalar, [32]byte) {
	t.Helper()
	wide := make([]byte, 64)
	if _, err := rand.Read(wide); err != nil {
		t.Fatalf("rand: %v", err)
	}
	s, err := new(edwards25519.Scalar).SetUniformBytes(wide)
	if err != nil {
		t.Fatalf("set uniform bytes: %v", err)
	}
	var out [32]byte
	copy(out[:], s.Bytes())
	return s, out
}

func TestDerivePublicDeterministic(t *testing.T) {
	_, secret := randomScalar(t)
	p1, err := DerivePublic(secret)
	if err != nil {
		t.Fatalf("derive public: %v", err)
	}
	p2, err := DerivePublic(secret)
	if err != nil {
		t.Fatalf("derive public: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected deterministic derivation")
	}
}

func TestStealthAddressRoundTrip(t *testing.T) {
	// Recipient keys.
	_, viewSecret := randomScalar(t)
	spendSecretScalar, _ := randomScalar(t)
	spendPublicPoint := new(edwards25519.Point).ScalarBaseMult(spendSecretScalar)
	var spendPublic [32]byte
	copy(spendPublic[:], spendPublicPoint.Bytes())

	// Sender-side tx key pair (txSecret, txPublic = txSecret*G).
	txSecretScalar, _ := randomScalar(t)
	txPublicPoint := new(edwards25519.Point).ScalarBaseMult(txSecretScalar)
	var txPublic [32]byte
	copy(txPublic[:], txPublicPoint.Bytes())

	D, rerr := KeyDerivation(txPublic, viewSecret)
	if rerr != nil {
		t.Fatalf("key derivation: %v", rerr)
	}

	stealth, rerr := DerivePublicKey(D, 0, spendPublic)
	if rerr != nil {
		t.Fatalf("derive public key: %v", rerr)
	}
	if stealth == ([32]byte{}) {
		t.Fatalf("expected non-zero stealth address")
	}

	// Recomputing with a different output index must produce a
	// different stealth address.
	stealth2, rerr := DerivePublicKey(D, 1, spendPublic)
	if rerr != nil {
		t.Fatalf("derive public key: %v", rerr)
	}
	if stealth == stealth2 {
		t.Fatalf("expected distinct stealth addresses per output index")
	}
}

func TestECDHRoundTrip(t *testing.T) {
	_, viewSecret := randomScalar(t)
	txSecretScalar, _ := randomScalar(t)
	txPublicPoint := new(edwards25519.Point).ScalarBaseMult(txSecretScalar)
	var txPublic [32]byte
	copy(txPublic[:], txPublicPoint.Bytes())

	D, rerr := KeyDerivation(txPublic, viewSecret)
	if rerr != nil {
		t.Fatalf("key derivation: %v", rerr)
	}

	_, mask := randomScalar(t)
	const amount = uint64(123456789)

	maskEnc, amountEnc, rerr := ECDHEncode(D, 3, mask, amount)
	if rerr != nil {
		t.Fatalf("ecdh encode: %v", rerr)
	}

	gotMask, gotAmount, rerr := ECDHDecode(D, 3, maskEnc, amountEnc)
	if rerr != nil {
		t.Fatalf("ecdh decode: %v", rerr)
	}
	if gotAmount != amount {
		t.Fatalf("amount mismatch: got %d want %d", gotAmount, amount)
	}
	if gotMask != mask {
		t.Fatalf("mask mismatch")
	}
}

func TestPedersenCommitDeterministic(t *testing.T) {
	_, mask := randomScalar(t)
	c1, err := PedersenCommit(1000, mask)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	c2, err := PedersenCommit(1000, mask)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected deterministic commitment")
	}
	c3, err := PedersenCommit(1001, mask)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if c1 == c3 {
		t.Fatalf("expected distinct commitments for distinct amounts")
	}
}

func TestDerivePublicRejectsNonCanonicalScalar(t *testing.T) {
	var bad [32]byte
	for i := range bad {
		bad[i] = 0xff
	}
	if _, err := DerivePublic(bad); err == nil {
		t.Fatalf("expected CryptoFailure for non-canonical scalar")
	}
}
