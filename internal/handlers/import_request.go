package handlers

import (
	"context"

	"synnergy-network/internal/result"
)

// ImportRequestRequest is /import_request's body.
type ImportRequestRequest struct {
	Address string `json:"address"`
	ViewKey string `json:"view_key"`
}

// ImportRequestResponse is /import_request's body.
type ImportRequestResponse struct {
	ImportFee        Uint64String `json:"import_fee"`
	NewRequest       bool         `json:"new_request"`
	RequestFulfilled bool         `json:"request_fulfilled"`
	Status           string       `json:"status"`
}

// ImportRequest queues an ImportScan request for an approved account,
// resuming its scan from height 0. An account already at start_height==0
// needs no rescan and is reported as immediately fulfilled, per spec
// §4.C7.
func ImportRequest(ctx context.Context, d *Deps, req ImportRequestRequest) (ImportRequestResponse, *result.Error) {
	reader, acc, rerr := authenticated(d, req.Address, req.ViewKey)
	if rerr != nil {
		return ImportRequestResponse{}, rerr
	}
	address, startHeight := acc.Address, acc.StartHeight
	_ = reader.Finish()

	if startHeight == 0 {
		return ImportRequestResponse{
			ImportFee:        0,
			NewRequest:       false,
			RequestFulfilled: true,
			Status:           "OK",
		}, nil
	}

	fee, feeErr := d.Oracle.FeeEstimate(ctx)
	if feeErr != nil {
		d.logger().WithError(feeErr).Warn("import_request: fee estimate failed, reporting zero")
		fee = 0
	}

	if rerr := d.Store.Writer().ImportRequest(address, 0); rerr != nil {
		return ImportRequestResponse{}, rerr
	}
	return ImportRequestResponse{
		ImportFee:        Uint64String(fee),
		NewRequest:       true,
		RequestFulfilled: false,
		Status:           "OK",
	}, nil
}
