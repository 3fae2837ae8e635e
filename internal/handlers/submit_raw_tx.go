package handlers

import (
	"context"
	"encoding/hex"

	"synnergy-network/internal/result"
)

// SubmitRawTxRequest is /submit_raw_tx's body. Like get_random_outs, it
// requires the caller already be logged_in; enforced by the dispatcher.
type SubmitRawTxRequest struct {
	Tx string `json:"tx"`
}

// SubmitRawTxResponse is /submit_raw_tx's body.
type SubmitRawTxResponse struct {
	Status string `json:"status"`
}

// SubmitRawTx implements /submit_raw_tx (spec §4.C7): hex-decode, sanity
// check, relay via the oracle, and surface a non-relayed report as
// TxRelayFailed.
func SubmitRawTx(ctx context.Context, d *Deps, req SubmitRawTxRequest) (SubmitRawTxResponse, *result.Error) {
	raw, err := hex.DecodeString(req.Tx)
	if err != nil {
		return SubmitRawTxResponse{}, result.NewError(result.BadClientTx, "tx is not valid hex").Wrap(err)
	}
	if len(raw) == 0 {
		return SubmitRawTxResponse{}, result.NewError(result.BadClientTx, "tx is empty")
	}

	if rerr := d.Oracle.RelayTransaction(ctx, req.Tx); rerr != nil {
		return SubmitRawTxResponse{}, rerr
	}
	return SubmitRawTxResponse{Status: "OK"}, nil
}
