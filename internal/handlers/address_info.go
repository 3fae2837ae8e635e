package handlers

import (
	"context"
	"sort"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/oracle"
	"synnergy-network/internal/result"
)

// AddressInfoRequest is /get_address_info's body.
type AddressInfoRequest struct {
	Address string `json:"address"`
	ViewKey string `json:"view_key"`
}

// SpentOutputDescriptor is one entry of /get_address_info's spent_outputs.
type SpentOutputDescriptor struct {
	Amount     Uint64String `json:"amount"`
	KeyImage   HexBytes     `json:"key_image"`
	TxPubKey   HexBytes     `json:"tx_pub_key"`
	OutIndex   uint32       `json:"out_index"`
	Mixin      uint32       `json:"mixin"`
}

// AddressInfoResponse is /get_address_info's body.
type AddressInfoResponse struct {
	LockedFunds        Uint64String            `json:"locked_funds"`
	TotalReceived      Uint64String            `json:"total_received"`
	TotalSent          Uint64String            `json:"total_sent"`
	ScannedHeight      uint64                  `json:"scanned_height"`
	ScannedBlockHeight uint64                  `json:"scanned_block_height"`
	StartHeight        uint64                  `json:"start_height"`
	TransactionHeight  uint64                  `json:"transaction_height"`
	BlockchainHeight   uint64                  `json:"blockchain_height"`
	SpentOutputs       []SpentOutputDescriptor `json:"spent_outputs"`
	Rates              *oracle.ExchangeRates   `json:"rates,omitempty"`
}

// isLocked implements spec §4.C7 step 3's unlock rule: coinbase outputs
// need chainHeight > output height + coinbaseUnlockWindow; other outputs
// consult unlock_time, disambiguating a block height from a unix
// timestamp by comparison against maxBlockNumber.
func isLocked(o accountstore.Output, chainHeight, coinbaseUnlockWindow, maxBlockNumber uint64, now uint64) bool {
	if o.IsCoinbase() {
		return !(chainHeight > o.ID.BlockHeight+coinbaseUnlockWindow)
	}
	if o.UnlockTime > maxBlockNumber {
		return o.UnlockTime > now
	}
	return o.UnlockTime > chainHeight
}

// AddressInfo implements /get_address_info (spec §4.C7).
func AddressInfo(ctx context.Context, d *Deps, req AddressInfoRequest, now uint64) (AddressInfoResponse, *result.Error) {
	reader, acc, rerr := authenticated(d, req.Address, req.ViewKey)
	if rerr != nil {
		return AddressInfoResponse{}, rerr
	}
	blocks := reader.RecentBlocks()
	height := chainHeight(blocks)

	var totalReceived, lockedFunds uint64
	type outMeta struct {
		id       accountstore.OutputID
		amount   uint64
		txPublic [32]byte
		index    uint32
	}
	var metas []outMeta

	oc := reader.Outputs(acc.ID)
	for o, ok := oc.First(); ok; o, ok = oc.Advance() {
		totalReceived += o.Amount
		if isLocked(o, height, d.CoinbaseUnlockWindow, d.MaxBlockNumber, now) {
			lockedFunds += o.Amount
		}
		metas = append(metas, outMeta{id: o.ID, amount: o.Amount, txPublic: o.TxPublic, index: o.Index})
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].id.Less(metas[j].id) })

	var totalSent uint64
	var spentOutputs []SpentOutputDescriptor
	sc := reader.Spends(acc.ID)
	for s, ok := sc.First(); ok; s, ok = sc.Advance() {
		idx := sort.Search(len(metas), func(i int) bool { return !metas[i].id.Less(s.Source) })
		if idx >= len(metas) || metas[idx].id != s.Source {
			_ = reader.Finish()
			return AddressInfoResponse{}, result.NewError(result.InternalInvariantViolation, "spend references an output not on record")
		}
		totalSent += metas[idx].amount
		spentOutputs = append(spentOutputs, SpentOutputDescriptor{
			Amount:   Uint64String(metas[idx].amount),
			KeyImage: s.Image[:],
			TxPubKey: metas[idx].txPublic[:],
			OutIndex: metas[idx].index,
			Mixin:    s.MixinCount,
		})
	}
	_ = reader.Finish()

	resp := AddressInfoResponse{
		LockedFunds:        Uint64String(lockedFunds),
		TotalReceived:      Uint64String(totalReceived),
		TotalSent:          Uint64String(totalSent),
		ScannedHeight:      acc.ScanHeight,
		ScannedBlockHeight: acc.ScanHeight,
		StartHeight:        acc.StartHeight,
		TransactionHeight:  height,
		BlockchainHeight:   height,
		SpentOutputs:       spentOutputs,
	}

	rates, rateErr := d.Oracle.FetchExchangeRates(ctx)
	if rateErr != nil {
		d.logger().WithError(rateErr).Info("get_address_info: exchange rate fetch failed, omitting rates")
	} else {
		resp.Rates = rates
	}
	return resp, nil
}
