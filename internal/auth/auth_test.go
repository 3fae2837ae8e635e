package auth

import (
	"path/filepath"
	"testing"
	"time"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/result"
)

func openTestStore(t *testing.T) *accountstore.Store {
	t.Helper()
	s, err := accountstore.Open(filepath.Join(t.TempDir(), "lws.db"), time.Second, 8, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func promotedAccount(t *testing.T, s *accountstore.Store, viewSecret [32]byte, spendPublic byte) accountstore.Address {
	t.Helper()
	viewPublic, rerr := cryptonote.DerivePublic(viewSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic: %v", rerr)
	}
	var addr accountstore.Address
	addr.SpendPublic[0] = spendPublic
	addr.ViewPublic = viewPublic

	if err := s.Writer().CreateAccountRequest(addr, viewSecret); err != nil {
		t.Fatalf("CreateAccountRequest: %v", err)
	}
	if err := s.Writer().ApproveRequest(accountstore.CreateAccount, addr); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	return addr
}

func TestAuthenticateSucceedsWithCorrectViewKey(t *testing.T) {
	s := openTestStore(t)
	viewSecret := [32]byte{1, 2, 3}
	addr := promotedAccount(t, s, viewSecret, 7)

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	acc, rerr := Authenticate(r, addr, viewSecret)
	if rerr != nil {
		t.Fatalf("Authenticate: %v", rerr)
	}
	if acc.Address != addr {
		t.Fatal("returned account has wrong address")
	}
}

func TestAuthenticateRejectsWrongViewKey(t *testing.T) {
	s := openTestStore(t)
	viewSecret := [32]byte{1, 2, 3}
	addr := promotedAccount(t, s, viewSecret, 8)

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	wrongSecret := [32]byte{9, 9, 9}
	_, rerr := Authenticate(r, addr, wrongSecret)
	if rerr == nil || rerr.Code != result.BadViewKey {
		t.Fatalf("expected BadViewKey, got %v", rerr)
	}
}

func TestAuthenticateMissingAccountIsNoSuchAccount(t *testing.T) {
	s := openTestStore(t)
	viewSecret := [32]byte{4, 5, 6}
	viewPublic, rerr := cryptonote.DerivePublic(viewSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic: %v", rerr)
	}
	var addr accountstore.Address
	addr.ViewPublic = viewPublic

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	_, authErr := Authenticate(r, addr, viewSecret)
	if authErr == nil || authErr.Code != result.NoSuchAccount {
		t.Fatalf("expected NoSuchAccount, got %v", authErr)
	}
}

func TestAuthenticateHiddenAccountIsIndistinguishableFromMissing(t *testing.T) {
	s := openTestStore(t)
	viewSecret := [32]byte{7, 7, 7}
	addr := promotedAccount(t, s, viewSecret, 11)

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	acc, ok, ioErr := r.AccountByAddress(addr)
	if ioErr != nil || !ok {
		t.Fatalf("expected account to be found, ok=%v err=%v", ok, ioErr)
	}
	r.Finish()

	if err := s.Writer().SetStatus(acc.ID, accountstore.Hidden); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	r2, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r2.Finish()

	_, authErr := Authenticate(r2, addr, viewSecret)
	if authErr == nil || authErr.Code != result.NoSuchAccount {
		t.Fatalf("expected NoSuchAccount for hidden account, got %v", authErr)
	}
}
