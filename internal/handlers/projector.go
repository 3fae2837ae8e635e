package handlers

import (
	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/cryptonote"
	"synnergy-network/internal/result"
)

// ProjectedOutput is one (output, derived stealth key, optional ringct
// decoding, key-images) tuple emitted by /get_unspent_outs, per spec
// §4.C8.
type ProjectedOutput struct {
	Amount      Uint64String `json:"amount"`
	PublicKey   HexBytes     `json:"public_key"`
	Index       uint32       `json:"index"`
	GlobalIndex uint64       `json:"global_index"`
	TxID        HexBytes     `json:"tx_id"`
	TxPubKey    HexBytes     `json:"tx_pub_key"`
	RctCommit   HexBytes     `json:"rct,omitempty"`
	MaskEnc     HexBytes     `json:"mask,omitempty"`
	AmountEnc   HexBytes     `json:"amount_enc,omitempty"`
	KeyImages   []HexBytes   `json:"key_images"`
}

// ProjectOutput implements spec §4.C8: derive the stealth key-image
// binding data for one output addressed to (viewSecret, spendPublic), and
// — if it carries the RingCT flag — its ECDH-encoded amount/mask plus
// Pedersen commitment.
func ProjectOutput(o accountstore.Output, viewSecret [32]byte, spendPublic [32]byte, images [][32]byte) (ProjectedOutput, *result.Error) {
	D, rerr := cryptonote.KeyDerivation(o.TxPublic, viewSecret)
	if rerr != nil {
		return ProjectedOutput{}, rerr
	}
	publicKey, rerr := cryptonote.DerivePublicKey(D, o.Index, spendPublic)
	if rerr != nil {
		return ProjectedOutput{}, rerr
	}

	out := ProjectedOutput{
		Amount:      Uint64String(o.Amount),
		PublicKey:   publicKey[:],
		Index:       o.Index,
		GlobalIndex: o.ID.Low,
		TxID:        o.Link.TxHash[:],
		TxPubKey:    o.TxPublic[:],
	}
	for _, img := range images {
		out.KeyImages = append(out.KeyImages, HexBytes(img[:]))
	}

	if o.IsRingct() {
		maskEnc, amountEnc, rerr := cryptonote.ECDHEncode(D, o.Index, o.RingctMask, o.Amount)
		if rerr != nil {
			return ProjectedOutput{}, rerr
		}
		commitment, rerr := cryptonote.PedersenCommit(o.Amount, o.RingctMask)
		if rerr != nil {
			return ProjectedOutput{}, rerr
		}
		out.RctCommit = commitment[:]
		out.MaskEnc = maskEnc[:]
		out.AmountEnc = amountEnc[:]
	}
	return out, nil
}
