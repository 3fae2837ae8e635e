package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synnergy-network/internal/result"
)

func TestFeeEstimateDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_fee_estimate" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(FeeEstimateResponse{FeePerKB: 12345})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, time.Second, nil)
	fee, err := c.FeeEstimate(context.Background())
	if err != nil {
		t.Fatalf("FeeEstimate: %v", err)
	}
	if fee != 12345 {
		t.Fatalf("fee = %d, want 12345", fee)
	}
}

func TestRelayTransactionFailsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RelayResponse{Status: "Failed"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, time.Second, nil)
	err := c.RelayTransaction(context.Background(), "deadbeef")
	if err == nil || err.Code != result.TxRelayFailed {
		t.Fatalf("expected TxRelayFailed, got %v", err)
	}
}

func TestCallTimesOutAsDaemonTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(FeeEstimateResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Millisecond, 5*time.Millisecond, nil)
	_, err := c.FeeEstimate(context.Background())
	if err == nil || err.Code != result.DaemonTimeout {
		t.Fatalf("expected DaemonTimeout, got %v", err)
	}
}

func TestNon200StatusIsBadDaemonResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, time.Second, nil)
	_, err := c.FeeEstimate(context.Background())
	if err == nil || err.Code != result.BadDaemonResponse {
		t.Fatalf("expected BadDaemonResponse, got %v", err)
	}
}
