package handlers

import (
	"bytes"
	"context"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/result"
)

// AddressTxsRequest is /get_address_txs's body.
type AddressTxsRequest struct {
	Address string `json:"address"`
	ViewKey string `json:"view_key"`
}

// TransactionEntry is one merged per-transaction record in
// /get_address_txs's transactions[].
type TransactionEntry struct {
	Height       uint64       `json:"height"`
	Hash         HexBytes     `json:"hash"`
	TotalReceived Uint64String `json:"total_received"`
	Spent        bool         `json:"spent"`
	Coinbase     bool         `json:"coinbase"`
}

// AddressTxsResponse is /get_address_txs's body.
type AddressTxsResponse struct {
	TotalReceived      Uint64String        `json:"total_received"`
	ScannedHeight      uint64              `json:"scanned_height"`
	ScannedBlockHeight uint64              `json:"scanned_block_height"`
	StartHeight        uint64              `json:"start_height"`
	TransactionHeight  uint64              `json:"transaction_height"`
	BlockchainHeight   uint64              `json:"blockchain_height"`
	Transactions       []TransactionEntry  `json:"transactions"`
}

func linkLess(a, b accountstore.TxLink) bool {
	if a.Height != b.Height {
		return a.Height < b.Height
	}
	return bytes.Compare(a.TxHash[:], b.TxHash[:]) < 0
}

func linkEqual(a, b accountstore.TxLink) bool {
	return a.Height == b.Height && a.TxHash == b.TxHash
}

// AddressTxs implements /get_address_txs (spec §4.C7): outputs and spends
// are walked in lockstep, merging by (tx_height, tx_hash) — whichever
// cursor's next link sorts lower is consumed next; records belonging to
// the same transaction collapse into one entry.
func AddressTxs(ctx context.Context, d *Deps, req AddressTxsRequest) (AddressTxsResponse, *result.Error) {
	reader, acc, rerr := authenticated(d, req.Address, req.ViewKey)
	if rerr != nil {
		return AddressTxsResponse{}, rerr
	}
	height := chainHeight(reader.RecentBlocks())

	oc := reader.Outputs(acc.ID)
	sc := reader.Spends(acc.ID)

	out, outOK := oc.First()
	sp, spOK := sc.First()

	var entries []TransactionEntry
	var totalReceived uint64
	var lastLink accountstore.TxLink
	haveLast := false

	appendOrMerge := func(link accountstore.TxLink, amount uint64, spent, coinbase bool) *result.Error {
		if haveLast && linkLess(link, lastLink) {
			return result.NewError(result.InternalInvariantViolation, "non-monotonic transaction link during merge walk")
		}
		if haveLast && linkEqual(link, lastLink) {
			last := &entries[len(entries)-1]
			last.TotalReceived += Uint64String(amount)
			if spent {
				last.Spent = true
			}
			return nil
		}
		entries = append(entries, TransactionEntry{
			Height:        link.Height,
			Hash:          append([]byte(nil), link.TxHash[:]...),
			TotalReceived: Uint64String(amount),
			Spent:         spent,
			Coinbase:      coinbase,
		})
		lastLink = link
		haveLast = true
		return nil
	}

	for outOK || spOK {
		switch {
		case outOK && (!spOK || linkLess(out.Link, sp.Link) || linkEqual(out.Link, sp.Link)):
			totalReceived += out.Amount
			if rerr := appendOrMerge(out.Link, out.Amount, false, out.IsCoinbase()); rerr != nil {
				_ = reader.Finish()
				return AddressTxsResponse{}, rerr
			}
			out, outOK = oc.Advance()
		default:
			if rerr := appendOrMerge(sp.Link, 0, true, false); rerr != nil {
				_ = reader.Finish()
				return AddressTxsResponse{}, rerr
			}
			sp, spOK = sc.Advance()
		}
	}
	_ = reader.Finish()

	return AddressTxsResponse{
		TotalReceived:      Uint64String(totalReceived),
		ScannedHeight:      acc.ScanHeight,
		ScannedBlockHeight: acc.ScanHeight,
		StartHeight:        acc.StartHeight,
		TransactionHeight:  height,
		BlockchainHeight:   height,
		Transactions:       entries,
	}, nil
}
