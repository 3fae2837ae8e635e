package handlers

import (
	"context"

	"synnergy-network/internal/auth"
	"synnergy-network/internal/result"
)

// LoginRequest is /login's body.
type LoginRequest struct {
	Address       string `json:"address"`
	ViewKey       string `json:"view_key"`
	CreateAccount bool   `json:"create_account"`
}

// LoginResponse is /login's body.
type LoginResponse struct {
	NewAddress bool `json:"new_address"`
}

// Login either confirms an existing account, rejects a hidden one, or —
// with create_account=true — queues a CreateAccount request. It never
// sets the caller's logged_in flag itself (spec §4.C7: "does not set
// logged_in"); that is the dispatcher's job on handlers that do
// authenticate via the normal path, which Login deliberately bypasses.
func Login(ctx context.Context, d *Deps, req LoginRequest) (LoginResponse, *result.Error) {
	address, viewKey, rerr := parseAddress(req.Address, req.ViewKey)
	if rerr != nil {
		return LoginResponse{}, rerr
	}

	reader, err := d.Store.NewReader()
	if err != nil {
		return LoginResponse{}, result.NewError(result.InternalInvariantViolation, "could not open read snapshot").Wrap(err)
	}
	acc, authErr := auth.Authenticate(reader, address, viewKey)
	_ = reader.Finish()

	if authErr == nil {
		return LoginResponse{NewAddress: false}, nil
	}
	if authErr.Code != result.NoSuchAccount {
		return LoginResponse{}, authErr
	}
	if !req.CreateAccount {
		return LoginResponse{}, authErr
	}

	if rerr := d.Store.Writer().CreateAccountRequest(address, viewKey); rerr != nil {
		return LoginResponse{}, rerr
	}
	return LoginResponse{NewAddress: true}, nil
}
