// Package auth implements the authentication predicate shared by every
// address-bearing endpoint (spec §4.C6): derive the submitted view key's
// public counterpart and compare it against the stored address before
// ever touching the account table, so a wrong key and a missing account
// fail identically from the caller's perspective.
package auth

import (
	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/result"
)

// Authenticate verifies that viewKeySecret derives address's public view
// key, then looks up the account. A Hidden account is reported exactly
// like a missing one — both fail with NoSuchAccount — so the API surface
// never lets a caller distinguish "hidden" from "never existed".
func Authenticate(reader *accountstore.Reader, address accountstore.Address, viewKeySecret [32]byte) (*accountstore.Account, *result.Error) {
	derived, rerr := cryptonote.DerivePublic(viewKeySecret)
	if rerr != nil {
		return nil, rerr
	}
	if derived != address.ViewPublic {
		return nil, result.NewError(result.BadViewKey, "view key does not match address")
	}

	acc, ok, ioErr := reader.AccountByAddress(address)
	if ioErr != nil {
		return nil, result.NewError(result.InternalInvariantViolation, "account lookup failed").Wrap(ioErr)
	}
	if !ok {
		return nil, result.NewError(result.NoSuchAccount, "no account for this address")
	}
	if acc.Status == accountstore.Hidden {
		return nil, result.NewError(result.NoSuchAccount, "no account for this address")
	}
	return acc, nil
}
