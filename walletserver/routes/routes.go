// Package routes wires the light-wallet server's seven endpoints plus
// the unknown-path/wrong-method/unimplemented-endpoint contract of
// spec §6 onto a gorilla/mux router.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"synnergy-network/internal/metrics"
	"synnergy-network/walletserver/controllers"
	"synnergy-network/walletserver/middleware"
)

const (
	defaultBodyLimit  = 2 * 1024
	submitTxBodyLimit = 50 * 1024
)

// Register mounts every endpoint on r. unimplemented lists extra paths
// (e.g. /get_txt_records) that exist in the wire contract but have no
// handler — spec §6 maps these to 501 rather than 404. workers bounds how
// many requests run concurrently (spec §5's worker-pool model). reg, if
// non-nil, is mounted at /metrics.
func Register(r *mux.Router, wc *controllers.WalletController, unimplemented []string, workers int, reg *metrics.Registry) {
	r.Use(middleware.Logger)
	if reg != nil {
		r.Use(middleware.Metrics(reg))
		r.Handle("/metrics", reg.Handler()).Methods(http.MethodGet)
	}
	if workers > 0 {
		r.Use(middleware.WorkerLimit(workers))
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status":"not found"}`, http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status":"method not allowed"}`, http.StatusMethodNotAllowed)
	})

	post := func(path string, limit int64, h http.HandlerFunc) {
		r.Handle(path, middleware.BodyLimit(limit)(h)).Methods(http.MethodPost)
	}

	post("/login", defaultBodyLimit, wc.Login)
	post("/get_address_info", defaultBodyLimit, wc.AddressInfo)
	post("/get_address_txs", defaultBodyLimit, wc.AddressTxs)
	post("/get_unspent_outs", defaultBodyLimit, wc.UnspentOuts)
	post("/get_random_outs", defaultBodyLimit, wc.RandomOuts)
	post("/import_request", defaultBodyLimit, wc.ImportRequest)
	post("/submit_raw_tx", submitTxBodyLimit, wc.SubmitRawTx)

	for _, path := range unimplemented {
		r.HandleFunc(path, controllers.NotImplemented).Methods(http.MethodPost)
	}
}
