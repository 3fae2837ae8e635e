// Package controllers adapts services.Service's endpoint methods to
// net/http: decode the JSON body, call the service, encode the response
// or the mapped error. One struct, one method per endpoint, matching the
// shape of the teacher's HTTP layer.
package controllers

import (
	"net/http"
	"time"

	"synnergy-network/internal/handlers"
	"synnergy-network/walletserver/services"
)

const sessionHeader = "X-Lws-Session"

// WalletController provides HTTP handlers for the light-wallet server's
// seven endpoints.
type WalletController struct {
	svc *services.Service
}

func NewWalletController(svc *services.Service) *WalletController {
	return &WalletController{svc: svc}
}

func (wc *WalletController) setSession(w http.ResponseWriter, token string) {
	if token != "" {
		w.Header().Set(sessionHeader, token)
	}
}

func (wc *WalletController) Login(w http.ResponseWriter, r *http.Request) {
	var req handlers.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, token, rerr := wc.svc.Login(r.Context(), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	wc.setSession(w, token)
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) AddressInfo(w http.ResponseWriter, r *http.Request) {
	var req handlers.AddressInfoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, token, rerr := wc.svc.AddressInfo(r.Context(), req, uint64(time.Now().Unix()))
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	wc.setSession(w, token)
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) AddressTxs(w http.ResponseWriter, r *http.Request) {
	var req handlers.AddressTxsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, token, rerr := wc.svc.AddressTxs(r.Context(), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	wc.setSession(w, token)
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) UnspentOuts(w http.ResponseWriter, r *http.Request) {
	var req handlers.UnspentOutsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, token, rerr := wc.svc.UnspentOuts(r.Context(), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	wc.setSession(w, token)
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) ImportRequest(w http.ResponseWriter, r *http.Request) {
	var req handlers.ImportRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, token, rerr := wc.svc.ImportRequest(r.Context(), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	wc.setSession(w, token)
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) RandomOuts(w http.ResponseWriter, r *http.Request) {
	var req handlers.RandomOutsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, rerr := wc.svc.RandomOuts(r.Context(), r.Header.Get(sessionHeader), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	handlers.WriteJSON(w, resp)
}

func (wc *WalletController) SubmitRawTx(w http.ResponseWriter, r *http.Request) {
	var req handlers.SubmitRawTxRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		http.Error(w, `{"status":"error in incoming data"}`, http.StatusBadRequest)
		return
	}
	resp, rerr := wc.svc.SubmitRawTx(r.Context(), r.Header.Get(sessionHeader), req)
	if rerr != nil {
		handlers.WriteError(w, rerr)
		return
	}
	handlers.WriteJSON(w, resp)
}

// NotImplemented serves spec §6's "entry with null handler" contract,
// e.g. /get_txt_records.
func NotImplemented(w http.ResponseWriter, r *http.Request) {
	http.Error(w, `{"status":"not implemented"}`, http.StatusNotImplemented)
}
