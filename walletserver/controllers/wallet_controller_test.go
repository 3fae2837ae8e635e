package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/handlers"
	"synnergy-network/internal/oracle"
	"synnergy-network/walletserver/routes"
	"synnergy-network/walletserver/services"
	"synnergy-network/walletserver/session"
)

func newTestRouter(t *testing.T) *mux.Router {
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
		Store:  store,
		Oracle: oracle.New(oracleSrv.URL, time.Second, time.Second, nil),
	}
	svc := services.New(deps, session.New(time.Minute))
	ctrl := NewWalletController(svc)

	r := mux.NewRouter()
	routes.Register(r, ctrl, []string{"/get_txt_records"}, 0, nil)
	return r
}

func TestUnknownPathIs404(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/nonexistent", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWrongMethodIs405(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestUnimplementedEndpointIs501(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/get_txt_records", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestMalformedJSONIs400(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOversizedBodyIs400(t *testing.T) {
	r := newTestRouter(t)
	oversized := bytes.Repeat([]byte("a"), 3*1024)
	body := []byte(`{"tx":"` + string(oversized) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a body over the 2KiB default limit, got %d", rec.Code)
	}
}

func TestLoginUnknownAddressWithoutCreateAccountIs403(t *testing.T) {
	r := newTestRouter(t)
	var spendPublic, viewSecret [32]byte
	spendPublic[0], viewSecret[0] = 1, 1
	viewPublic, rerr := cryptonote.DerivePublic(viewSecret)
	if rerr != nil {
		t.Fatalf("DerivePublic: %v", rerr)
	}
	body, _ := json.Marshal(map[string]any{
		"address":  cryptonote.EncodeAddress(spendPublic, viewPublic),
		"view_key": hexEncode(viewSecret),
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
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
