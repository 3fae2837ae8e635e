package cryptonote

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"synnergy-network/internal/result"
)

// addressTag is a single-byte network/version tag prefixed to every
// encoded address, CryptoNote-style (distinguishes mainnet wallet
// addresses from other encoded forms this server might grow later).
const addressTag = 0x12

// checksumLen is the length, in bytes, of the truncated-hash checksum
// CryptoNote appends to the tag+payload before base58 encoding.
const checksumLen = 4

// EncodeAddress base58-encodes (tag || spendPublic || viewPublic ||
// checksum), the wire form submitted as the `address` field.
func EncodeAddress(spendPublic, viewPublic [32]byte) string {
	payload := make([]byte, 1+32+32)
	payload[0] = addressTag
	copy(payload[1:33], spendPublic[:])
	copy(payload[33:65], viewPublic[:])
	sum := checksum(payload)
	return base58.Encode(append(payload, sum...))
}

// DecodeAddress is EncodeAddress's inverse, failing with BadAddress on any
// malformed input: wrong length, bad checksum, or wrong tag.
func DecodeAddress(encoded string) (spendPublic, viewPublic [32]byte, rerr *result.Error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return spendPublic, viewPublic, result.NewError(result.BadAddress, "address is not valid base58").Wrap(err)
	}
	if len(raw) != 1+32+32+checksumLen {
		return spendPublic, viewPublic, result.NewError(result.BadAddress, "address has the wrong length")
	}
	payload, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	want := checksum(payload)
	for i := range want {
		if want[i] != sum[i] {
			return spendPublic, viewPublic, result.NewError(result.BadAddress, "address checksum mismatch")
		}
	}
	if payload[0] != addressTag {
		return spendPublic, viewPublic, result.NewError(result.BadAddress, "address has an unrecognised network tag")
	}
	copy(spendPublic[:], payload[1:33])
	copy(viewPublic[:], payload[33:65])
	return spendPublic, viewPublic, nil
}

func checksum(payload []byte) []byte {
	sum := sha256.Sum256(payload)
	sum = sha256.Sum256(sum[:])
	return sum[:checksumLen]
}
