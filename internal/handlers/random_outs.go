package handlers

import (
	"context"
	"strconv"

	"synnergy-network/internal/oracle"
	"synnergy-network/internal/result"
)

const (
	maxRandomOutsCount   = 50
	maxRandomOutsAmounts = 10
)

// RandomOutsRequest is /get_random_outs's body. Unlike every other
// endpoint it carries no address/view_key — spec §4.C7 requires the
// caller already be logged_in, i.e. hold a session token issued by an
// earlier authenticated call. walletserver/services checks that token
// before calling this handler; the handler itself does not.
type RandomOutsRequest struct {
	Count   uint64   `json:"count"`
	Amounts []string `json:"amounts"`
}

// RandomOutEntry is one decoy entry in an amount_outs group.
type RandomOutEntry struct {
	GlobalIndex uint64   `json:"global_index"`
	PublicKey   HexBytes `json:"public_key"`
}

// RandomAmountOuts groups decoys by the amount they were requested for.
type RandomAmountOuts struct {
	Amount  string           `json:"amount"`
	Outputs []RandomOutEntry `json:"outputs"`
}

// RandomOutsResponse is /get_random_outs's body.
type RandomOutsResponse struct {
	AmountOuts []RandomAmountOuts `json:"amount_outs"`
}

// RandomOuts implements /get_random_outs (spec §4.C7): two sequential
// oracle calls — random outputs per amount, then a key lookup by
// (amount, global_index). The join is by (amount, global_index): the i-th
// key in the second response is taken as the key of the i-th requested
// ref, and public keys are not compared. A count mismatch between the two
// responses, or a malformed key, is BadDaemonResponse.
func RandomOuts(ctx context.Context, d *Deps, req RandomOutsRequest) (RandomOutsResponse, *result.Error) {
	if req.Count > maxRandomOutsCount || len(req.Amounts) > maxRandomOutsAmounts {
		return RandomOutsResponse{}, result.NewError(result.ExceededRestRequestLimit, "count or amounts exceeds the allowed maximum")
	}

	randomResp, rerr := d.Oracle.RandomOutputs(ctx, req.Amounts, req.Count)
	if rerr != nil {
		return RandomOutsResponse{}, rerr
	}

	var refs []oracle.OutputKeyRef
	for _, group := range randomResp.AmountOuts {
		for _, entry := range group.Outputs {
			refs = append(refs, oracle.OutputKeyRef{Amount: group.Amount, GlobalIndex: entry.GlobalIndex})
		}
	}

	keysResp, rerr := d.Oracle.OutputKeys(ctx, refs)
	if rerr != nil {
		return RandomOutsResponse{}, rerr
	}
	if len(keysResp.Raw) != len(refs) {
		return RandomOutsResponse{}, result.NewError(result.BadDaemonResponse, "output key response count does not match request")
	}

	keyByRef := make(map[string][]byte, len(refs))
	for i, ref := range refs {
		k, err := hexDecodeOrEmpty(keysResp.Raw[i].PublicKey)
		if err != nil {
			return RandomOutsResponse{}, result.NewError(result.BadDaemonResponse, "malformed output public key in daemon response")
		}
		keyByRef[refKey(ref)] = k
	}

	resp := RandomOutsResponse{}
	for _, group := range randomResp.AmountOuts {
		out := RandomAmountOuts{Amount: group.Amount}
		for _, entry := range group.Outputs {
			pk, ok := keyByRef[refKey(oracle.OutputKeyRef{Amount: group.Amount, GlobalIndex: entry.GlobalIndex})]
			if !ok {
				return RandomOutsResponse{}, result.NewError(result.BadDaemonResponse, "no public key joined for a requested output")
			}
			out.Outputs = append(out.Outputs, RandomOutEntry{GlobalIndex: entry.GlobalIndex, PublicKey: pk})
		}
		resp.AmountOuts = append(resp.AmountOuts, out)
	}
	return resp, nil
}

func refKey(r oracle.OutputKeyRef) string {
	return r.Amount + "\x00" + strconv.FormatUint(r.GlobalIndex, 10)
}

func hexDecodeOrEmpty(s string) ([]byte, error) {
	var h HexBytes
	if err := h.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		return nil, err
	}
	return h, nil
}
