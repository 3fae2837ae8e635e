// Package services glues the HTTP layer's logged_in session gate (spec
// §4.C7: "get_random_outs and submit_raw_tx... require logged_in") onto
// internal/handlers' endpoint functions, which know nothing about HTTP
// sessions. Every address-bearing endpoint that authenticates
// successfully issues a session token; the two endpoints that carry no
// address of their own consume one instead.
package services

import (
	"context"

	"synnergy-network/internal/handlers"
	"synnergy-network/internal/result"
	"synnergy-network/walletserver/session"
)

// Service is the controller's single dependency.
type Service struct {
	Deps     *handlers.Deps
	Sessions *session.Store
}

func New(deps *handlers.Deps, sessions *session.Store) *Service {
	return &Service{Deps: deps, Sessions: sessions}
}

// Login confirms or queues an account and returns a session token when
// (and only when) it authenticates an existing account — per spec §4.C7,
// create_account=true's queued-request path never sets logged_in.
func (s *Service) Login(ctx context.Context, req handlers.LoginRequest) (handlers.LoginResponse, string, *result.Error) {
	resp, rerr := handlers.Login(ctx, s.Deps, req)
	if rerr != nil || resp.NewAddress {
		return resp, "", rerr
	}
	token, err := s.issue()
	return resp, token, err
}

func (s *Service) AddressInfo(ctx context.Context, req handlers.AddressInfoRequest, now uint64) (handlers.AddressInfoResponse, string, *result.Error) {
	resp, rerr := handlers.AddressInfo(ctx, s.Deps, req, now)
	if rerr != nil {
		return resp, "", rerr
	}
	token, err := s.issue()
	return resp, token, err
}

func (s *Service) AddressTxs(ctx context.Context, req handlers.AddressTxsRequest) (handlers.AddressTxsResponse, string, *result.Error) {
	resp, rerr := handlers.AddressTxs(ctx, s.Deps, req)
	if rerr != nil {
		return resp, "", rerr
	}
	token, err := s.issue()
	return resp, token, err
}

func (s *Service) UnspentOuts(ctx context.Context, req handlers.UnspentOutsRequest) (handlers.UnspentOutsResponse, string, *result.Error) {
	resp, rerr := handlers.UnspentOuts(ctx, s.Deps, req)
	if rerr != nil {
		return resp, "", rerr
	}
	token, err := s.issue()
	return resp, token, err
}

func (s *Service) ImportRequest(ctx context.Context, req handlers.ImportRequestRequest) (handlers.ImportRequestResponse, string, *result.Error) {
	resp, rerr := handlers.ImportRequest(ctx, s.Deps, req)
	if rerr != nil {
		return resp, "", rerr
	}
	token, err := s.issue()
	return resp, token, err
}

// RandomOuts requires an existing session in place of authenticating
// itself (spec §4.C7).
func (s *Service) RandomOuts(ctx context.Context, token string, req handlers.RandomOutsRequest) (handlers.RandomOutsResponse, *result.Error) {
	if _, ok := s.Sessions.Valid(token); !ok {
		return handlers.RandomOutsResponse{}, result.NewError(result.NoSuchAccount, "no active session")
	}
	return handlers.RandomOuts(ctx, s.Deps, req)
}

// SubmitRawTx requires an existing session in place of authenticating
// itself (spec §4.C7).
func (s *Service) SubmitRawTx(ctx context.Context, token string, req handlers.SubmitRawTxRequest) (handlers.SubmitRawTxResponse, *result.Error) {
	if _, ok := s.Sessions.Valid(token); !ok {
		return handlers.SubmitRawTxResponse{}, result.NewError(result.NoSuchAccount, "no active session")
	}
	return handlers.SubmitRawTx(ctx, s.Deps, req)
}

func (s *Service) issue() (string, *result.Error) {
	token, err := s.Sessions.Issue(0)
	if err != nil {
		return "", result.NewError(result.InternalInvariantViolation, "could not issue session token").Wrap(err)
	}
	return token, nil
}
