package handlers

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// Uint64String marshals as a decimal string rather than a JSON number, per
// spec §6's "large integers... serialised as decimal strings" convention
// (keeps values exact for clients whose native number type cannot hold a
// full uint64, e.g. a JavaScript frontend).
type Uint64String uint64

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(u), 10))), nil
}

func (u *Uint64String) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		// Also accept a bare JSON number for callers that don't follow the
		// decimal-string convention strictly.
		s = string(b)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("handlers: %q is not a valid uint64", string(b))
	}
	*u = Uint64String(v)
	return nil
}

// HexBytes marshals as lowercase, unprefixed hex, per spec §6's hex-field
// convention.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(hex.EncodeToString(h))), nil
}

func (h *HexBytes) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("handlers: hex field is not a JSON string")
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("handlers: %w", err)
	}
	*h = decoded
	return nil
}
