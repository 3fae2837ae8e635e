package handlers

import (
	"encoding/hex"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/auth"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/result"
)

// parseAddress decodes the base58 address field and the hex view_key
// field shared by every address-bearing endpoint.
func parseAddress(addressStr, viewKeyHex string) (accountstore.Address, [32]byte, *result.Error) {
	spendPublic, viewPublic, rerr := cryptonote.DecodeAddress(addressStr)
	if rerr != nil {
		return accountstore.Address{}, [32]byte{}, rerr
	}
	viewKeyRaw, err := hex.DecodeString(viewKeyHex)
	if err != nil || len(viewKeyRaw) != 32 {
		return accountstore.Address{}, [32]byte{}, result.NewError(result.BadViewKey, "view_key must be 64 hex characters")
	}
	var viewKey [32]byte
	copy(viewKey[:], viewKeyRaw)
	return accountstore.Address{SpendPublic: spendPublic, ViewPublic: viewPublic}, viewKey, nil
}

// authenticated opens a reader and authenticates (address, viewKey) in one
// step, the shape every address-bearing endpoint besides login starts
// with. The caller owns Finish()ing the returned reader.
func authenticated(d *Deps, addressStr, viewKeyHex string) (*accountstore.Reader, *accountstore.Account, *result.Error) {
	address, viewKey, rerr := parseAddress(addressStr, viewKeyHex)
	if rerr != nil {
		return nil, nil, rerr
	}
	reader, err := d.Store.NewReader()
	if err != nil {
		return nil, nil, result.NewError(result.InternalInvariantViolation, "could not open read snapshot").Wrap(err)
	}
	acc, rerr := auth.Authenticate(reader, address, viewKey)
	if rerr != nil {
		_ = reader.Finish()
		return nil, nil, rerr
	}
	return reader, acc, nil
}
