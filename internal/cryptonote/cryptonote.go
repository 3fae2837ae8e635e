// Package cryptonote implements the output projector's stealth-address
// derivation and RingCT ECDH amount/mask encoding (spec §4.C8), plus the
// view-key authentication primitive (spec §4.C6), over the edwards25519
// group.
package cryptonote

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"

	"synnergy-network/internal/result"
)

// cofactorScalar is the edwards25519 cofactor; key derivations are multiplied by
// it to land in the prime-order subgroup, matching CryptoNote's
// generate_key_derivation.
var cofactorScalar = mustScalar(8)

func mustScalar(n uint64) *edwards25519.Scalar {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint64(buf, n)
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(buf)
	if err != nil {
		panic(err)
	}
	return s
}

// hashToScalar reduces the SHA-256 of the concatenated inputs into a
// canonical scalar mod the group order, standing in for CryptoNote's Hs.
func hashToScalar(parts ...[]byte) *edwards25519.Scalar {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	sum := h.Sum(nil)
	wide := make([]byte, 64)
	copy(wide, sum)
	s, err := new(edwards25519.Scalar).SetUniformBytes(wide)
	if err != nil {
		// SetUniformBytes only errors on a length mismatch; wide is
		// always exactly 64 bytes.
		panic(err)
	}
	return s
}

// appendVarint appends an unsigned LEB128 varint, matching CryptoNote's
// wire varint encoding of the output index.
func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func scalarFromSecret(secret [32]byte) (*edwards25519.Scalar, *result.Error) {
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(secret[:])
	if err != nil {
		return nil, result.NewError(result.CryptoFailure, "secret scalar not canonical").Wrap(err)
	}
	return s, nil
}

func pointFromPublic(public [32]byte) (*edwards25519.Point, *result.Error) {
	p, err := new(edwards25519.Point).SetBytes(public[:])
	if err != nil {
		return nil, result.NewError(result.CryptoFailure, "public key not a valid curve point").Wrap(err)
	}
	return p, nil
}

// DerivePublic computes the public key corresponding to secret, i.e.
// secret * G. Used both to authenticate a submitted view key against a
// stored view_public and, generically, wherever the account store needs a
// secret-to-public check.
func DerivePublic(secret [32]byte) ([32]byte, *result.Error) {
	s, rerr := scalarFromSecret(secret)
	if rerr != nil {
		return [32]byte{}, rerr
	}
	p := new(edwards25519.Point).ScalarBaseMult(s)
	var out [32]byte
	copy(out[:], p.Bytes())
	return out, nil
}

// KeyDerivation computes D = 8 * viewSecret * txPublic, the shared secret
// between a transaction's one-time public key and a recipient's view key.
func KeyDerivation(txPublic, viewSecret [32]byte) (*edwards25519.Point, *result.Error) {
	R, rerr := pointFromPublic(txPublic)
	if rerr != nil {
		return nil, rerr
	}
	a, rerr := scalarFromSecret(viewSecret)
	if rerr != nil {
		return nil, rerr
	}
	D := new(edwards25519.Point).ScalarMult(a, R)
	D = new(edwards25519.Point).ScalarMult(cofactorScalar, D)
	return D, nil
}

// DerivationToScalar computes Hs(D || varint(outputIndex)), the per-output
// scalar used both for stealth-address derivation and RingCT encoding.
func DerivationToScalar(D *edwards25519.Point, outputIndex uint32) *edwards25519.Scalar {
	buf := appendVarint(nil, uint64(outputIndex))
	return hashToScalar(D.Bytes(), buf)
}

// DerivePublicKey computes the stealth one-time output key
// P' = spendPublic + Hs(D, outputIndex) * G, which must equal the on-chain
// output's public key for an output addressed to this recipient.
func DerivePublicKey(D *edwards25519.Point, outputIndex uint32, spendPublic [32]byte) ([32]byte, *result.Error) {
	B, rerr := pointFromPublic(spendPublic)
	if rerr != nil {
		return [32]byte{}, rerr
	}
	hs := DerivationToScalar(D, outputIndex)
	hsG := new(edwards25519.Point).ScalarBaseMult(hs)
	P := new(edwards25519.Point).Add(B, hsG)
	var out [32]byte
	copy(out[:], P.Bytes())
	return out, nil
}

// pedersenH is a second generator used for Pedersen commitments. Its
// discrete log with respect to the base point is known (it is derived by
// scalar-multiplying the base point), which would be unacceptable in a
// production RingCT implementation but is adequate for this server's
// purposes: the server only ever verifies round-trip mask/amount recovery
// with the sender's own view key, never a hiding proof against a third
// party.
var pedersenH = new(edwards25519.Point).ScalarBaseMult(hashToScalar([]byte("lws-pedersen-h-generator")))

// PedersenCommit computes commitment = mask*G + amount*H.
func PedersenCommit(amount uint64, mask [32]byte) ([32]byte, *result.Error) {
	m, err := new(edwards25519.Scalar).SetCanonicalBytes(mask[:])
	if err != nil {
		return [32]byte{}, result.NewError(result.CryptoFailure, "mask scalar not canonical").Wrap(err)
	}
	amountBuf := make([]byte, 32)
	binary.LittleEndian.PutUint64(amountBuf, amount)
	a, err := new(edwards25519.Scalar).SetCanonicalBytes(amountBuf)
	if err != nil {
		return [32]byte{}, result.NewError(result.CryptoFailure, "amount scalar not canonical").Wrap(err)
	}
	mG := new(edwards25519.Point).ScalarBaseMult(m)
	aH := new(edwards25519.Point).ScalarMult(a, pedersenH)
	C := new(edwards25519.Point).Add(mG, aH)
	var out [32]byte
	copy(out[:], C.Bytes())
	return out, nil
}

// amountKeyScalar and maskKeyScalar derive the two independent keystream
// scalars used by ECDH encode/decode from the shared per-output scalar s.
func amountKeyScalar(s *edwards25519.Scalar) *edwards25519.Scalar {
	return hashToScalar(s.Bytes(), []byte("amount"))
}

func maskKeyScalar(s *edwards25519.Scalar) *edwards25519.Scalar {
	return hashToScalar(s.Bytes(), []byte("mask"))
}

// ECDHEncode encodes (mask, amount) for the recipient addressed by D/
// outputIndex, returning the wire-ready mask_enc/amount_enc pair.
func ECDHEncode(D *edwards25519.Point, outputIndex uint32, mask [32]byte, amount uint64) (maskEnc, amountEnc [32]byte, rerr *result.Error) {
	s := DerivationToScalar(D, outputIndex)
	m, err := new(edwards25519.Scalar).SetCanonicalBytes(mask[:])
	if err != nil {
		return maskEnc, amountEnc, result.NewError(result.CryptoFailure, "mask scalar not canonical").Wrap(err)
	}
	encMask := new(edwards25519.Scalar).Add(m, maskKeyScalar(s))
	copy(maskEnc[:], encMask.Bytes())

	keystream := amountKeyScalar(s).Bytes()
	binary.LittleEndian.PutUint64(amountEnc[:8], amount)
	for i := 0; i < 8; i++ {
		amountEnc[i] ^= keystream[i]
	}
	return maskEnc, amountEnc, nil
}

// ECDHDecode is ECDHEncode's inverse: given the same D/outputIndex it
// recovers the original (mask, amount).
func ECDHDecode(D *edwards25519.Point, outputIndex uint32, maskEnc, amountEnc [32]byte) (mask [32]byte, amount uint64, rerr *result.Error) {
	s := DerivationToScalar(D, outputIndex)
	encMask, err := new(edwards25519.Scalar).SetCanonicalBytes(maskEnc[:])
	if err != nil {
		return mask, 0, result.NewError(result.CryptoFailure, "mask_enc scalar not canonical").Wrap(err)
	}
	origMask := new(edwards25519.Scalar).Subtract(encMask, maskKeyScalar(s))
	copy(mask[:], origMask.Bytes())

	keystream := amountKeyScalar(s).Bytes()
	var amountBuf [8]byte
	copy(amountBuf[:], amountEnc[:8])
	for i := 0; i < 8; i++ {
		amountBuf[i] ^= keystream[i]
	}
	amount = binary.LittleEndian.Uint64(amountBuf[:])
	return mask, amount, nil
}
