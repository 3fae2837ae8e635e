package session

import (
	"testing"
	"time"
)

func TestIssueThenValid(t *testing.T) {
	s := New(time.Minute)
	token, err := s.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, ok := s.Valid(token)
	if !ok || id != 7 {
		t.Fatalf("Valid(%q) = (%d, %v), want (7, true)", token, id, ok)
	}
}

func TestValidRejectsUnknownToken(t *testing.T) {
	s := New(time.Minute)
	if _, ok := s.Valid("not-a-real-token"); ok {
		t.Fatal("unknown token should not validate")
	}
}

func TestValidRejectsExpiredToken(t *testing.T) {
	s := New(-time.Second) // already expired the instant it is issued
	token, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, ok := s.Valid(token); ok {
		t.Fatal("expired token should not validate")
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	s := New(-time.Second)
	token, _ := s.Issue(1)
	s.sweep(time.Now())
	s.mu.Lock()
	_, present := s.tokens[token]
	s.mu.Unlock()
	if present {
		t.Fatal("sweep should have removed the expired token")
	}
}
