package handlers

import (
	"context"

	"synnergy-network/internal/result"
)

// UnspentOutsRequest is /get_unspent_outs's body.
type UnspentOutsRequest struct {
	Address       string       `json:"address"`
	ViewKey       string       `json:"view_key"`
	Amount        Uint64String `json:"amount"`
	Mixin         uint32       `json:"mixin"`
	UseDust       bool         `json:"use_dust"`
	DustThreshold Uint64String `json:"dust_threshold"`
}

// UnspentOutsResponse is /get_unspent_outs's body.
type UnspentOutsResponse struct {
	PerKBFee uint64             `json:"per_kb_fee"`
	Amount   Uint64String       `json:"amount"`
	Outputs  []ProjectedOutput  `json:"outputs"`
}

type feeResult struct {
	fee uint64
	err *result.Error
}

// UnspentOuts implements /get_unspent_outs (spec §4.C7): the fee request
// is dispatched before the read snapshot opens and only awaited after it
// is finished, so the two never overlap the same suspension point on
// purpose — network I/O never pins KV pages.
func UnspentOuts(ctx context.Context, d *Deps, req UnspentOutsRequest) (UnspentOutsResponse, *result.Error) {
	feeCh := make(chan feeResult, 1)
	go func() {
		fee, err := d.Oracle.FeeEstimate(ctx)
		feeCh <- feeResult{fee: fee, err: err}
	}()

	var threshold uint64
	if !req.UseDust {
		threshold = uint64(req.DustThreshold)
	}

	reader, acc, rerr := authenticated(d, req.Address, req.ViewKey)
	if rerr != nil {
		return UnspentOutsResponse{}, rerr
	}

	var surviving uint64
	var projected []ProjectedOutput
	oc := reader.Outputs(acc.ID)
	for o, ok := oc.First(); ok; o, ok = oc.Advance() {
		if o.Amount < threshold || o.MixinCount < req.Mixin {
			continue
		}
		images := reader.Images(o.ID)
		out, perr := ProjectOutput(o, acc.ViewKey, acc.Address.SpendPublic, images)
		if perr != nil {
			_ = reader.Finish()
			return UnspentOutsResponse{}, perr
		}
		projected = append(projected, out)
		surviving += o.Amount
	}
	_ = reader.Finish()

	if surviving < uint64(req.Amount) {
		return UnspentOutsResponse{}, result.NewError(result.NoSuchAccount, "insufficient unspent outputs for requested amount")
	}

	fr := <-feeCh
	if fr.err != nil {
		d.logger().WithError(fr.err).Warn("get_unspent_outs: fee estimate failed, reporting zero")
	}

	return UnspentOutsResponse{
		PerKBFee: fr.fee,
		Amount:   req.Amount,
		Outputs:  projected,
	}, nil
}
