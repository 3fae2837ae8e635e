package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/handlers"
	"synnergy-network/internal/oracle"
	"synnergy-network/internal/result"
	"synnergy-network/walletserver/session"
)

func newTestService(t *testing.T) (*Service, *accountstore.Store) {
	t.Helper()
	store, err := accountstore.Open(filepath.Join(t.TempDir(), "lws.db"), time.Second, 16, 16)
	if err != nil {
		t.Fatalf("accountstore.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	oracleSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(oracleSrv.Close)

	deps := &handlers.Deps{
		Store:                store,
		Oracle:               oracle.New(oracleSrv.URL, time.Second, time.Second, nil),
		CoinbaseUnlockWindow: 60,
		MaxBlockNumber:       500000000,
	}
	return New(deps, session.New(time.Minute)), store
}

func promotedAddress(t *testing.T, store *accountstore.Store, b byte) (accountstore.Address, [32]byte) {
	t.Helper()
	viewSecret := [32]byte{b, 1, 2}
	viewPublic, rerr := cryptonote.DerivePublic(viewSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic: %v", rerr)
	}
	var spendSecret [32]byte
	spendSecret[0] = b
	spendPublic, rerr := cryptonote.DerivePublic(spendSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic(spend): %v", rerr)
	}
	addr := accountstore.Address{SpendPublic: spendPublic, ViewPublic: viewPublic}
	if rerr := store.Writer().CreateAccountRequest(addr, viewSecret); rerr != nil {
		t.Fatalf("CreateAccountRequest: %v", rerr)
	}
	if rerr := store.Writer().ApproveRequest(accountstore.CreateAccount, addr); rerr != nil {
		t.Fatalf("ApproveRequest: %v", rerr)
	}
	return addr, viewSecret
}

func hexEncode(b [32]byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 64)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

func TestLoginIssuesSessionForExistingAccount(t *testing.T) {
	svc, store := newTestService(t)
	addr, viewSecret := promotedAddress(t, store, 1)

	resp, token, rerr := svc.Login(context.Background(), handlers.LoginRequest{
		Address: cryptonote.EncodeAddress(addr.SpendPublic, addr.ViewPublic),
		ViewKey: hexEncode(viewSecret),
	})
	if rerr != nil {
		t.Fatalf("Login: %v", rerr)
	}
	if resp.NewAddress {
		t.Fatal("existing account should report new_address=false")
	}
	if token == "" {
		t.Fatal("expected a session token on successful login")
	}
	if _, ok := svc.Sessions.Valid(token); !ok {
		t.Fatal("issued token should validate")
	}
}

func TestLoginWithCreateAccountDoesNotIssueSession(t *testing.T) {
	svc, _ := newTestService(t)
	viewSecret := [32]byte{9, 9}
	viewPublic, rerr := cryptonote.DerivePublic(viewSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic: %v", rerr)
	}
	var spendPublic [32]byte
	spendPublic[0] = 77

	resp, token, rerr := svc.Login(context.Background(), handlers.LoginRequest{
		Address:       cryptonote.EncodeAddress(spendPublic, viewPublic),
		ViewKey:       hexEncode(viewSecret),
		CreateAccount: true,
	})
	if rerr != nil {
		t.Fatalf("Login: %v", rerr)
	}
	if !resp.NewAddress {
		t.Fatal("expected new_address=true for a queued create_account request")
	}
	if token != "" {
		t.Fatal("create_account=true path must not set logged_in")
	}
}

func TestRandomOutsRequiresSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, rerr := svc.RandomOuts(context.Background(), "", handlers.RandomOutsRequest{Count: 1})
	if rerr == nil || rerr.Code != result.NoSuchAccount {
		t.Fatalf("expected NoSuchAccount without a session, got %v", rerr)
	}
}

func TestRandomOutsAcceptsValidSession(t *testing.T) {
	svc, store := newTestService(t)
	_, _ = promotedAddress(t, store, 3)
	token, err := svc.Sessions.Issue(0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, rerr := svc.RandomOuts(context.Background(), token, handlers.RandomOutsRequest{Count: 51})
	if rerr == nil || rerr.Code != result.ExceededRestRequestLimit {
		t.Fatalf("expected the handler's own limit check to run, got %v", rerr)
	}
}
