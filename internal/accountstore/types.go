// Package accountstore implements the account database schema (spec §3,
// §4.C3), read snapshots (§4.C4), and the serialised writer (§4.C5) on top
// of internal/kvstore.
package accountstore

// Address is a CryptoNote-style public address pair.
type Address struct {
	SpendPublic [32]byte
	ViewPublic  [32]byte
}

// AccountStatus is the lifecycle state of an Account.
type AccountStatus uint8

const (
	Active AccountStatus = iota
	Inactive
	Hidden
)

// Account is the full persisted account record.
type Account struct {
	ID           uint32
	Address      Address
	ViewKey      [32]byte // secret; never leaves the server
	Status       AccountStatus
	ScanHeight   uint64
	StartHeight  uint64
	AccessTime   uint32
	CreationTime uint32
}

// BlockRef identifies a block by height and hash, used for the recent
// block-hash ring buffer (reorg detection).
type BlockRef struct {
	Height uint64
	Hash   [32]byte
}

// OutputID identifies a received output within an account: the block it
// was mined in, plus its position among that account's received outputs
// (the amount-index).
type OutputID struct {
	BlockHeight uint64
	Low         uint64
}

// Less reports whether id sorts strictly before other, per invariant 2
// ("outputs sorted by output.id ascending").
func (id OutputID) Less(other OutputID) bool {
	if id.BlockHeight != other.BlockHeight {
		return id.BlockHeight < other.BlockHeight
	}
	return id.Low < other.Low
}

// TxLink identifies the transaction an output or spend belongs to.
type TxLink struct {
	Height uint64
	TxHash [32]byte
}

// OutputFlags is a bitset packed alongside the payment-id length.
type OutputFlags uint8

const (
	FlagCoinbase OutputFlags = 1 << iota
	FlagRingct
)

// Output is a received output, as populated by the (external) chain
// scanner.
type Output struct {
	ID            OutputID
	Link          TxLink
	Index         uint32
	Amount        uint64
	MixinCount    uint32
	Timestamp     uint64
	TxPublic      [32]byte
	TxPrefixHash  [32]byte
	UnlockTime    uint64
	Flags         OutputFlags
	PaymentIDLen  uint8 // 0, 8, or 32
	RingctMask    [32]byte
	PaymentID     [32]byte // only the first PaymentIDLen bytes are meaningful
}

// IsCoinbase reports whether this output came from a coinbase transaction.
func (o *Output) IsCoinbase() bool { return o.Flags&FlagCoinbase != 0 }

// IsRingct reports whether this output carries a RingCT amount/mask.
func (o *Output) IsRingct() bool { return o.Flags&FlagRingct != 0 }

// Spend is a detected spend of a previously received output.
type Spend struct {
	Source     OutputID
	Link       TxLink
	Image      [32]byte
	MixinCount uint32
	Timestamp  uint64
	UnlockTime uint64
}

// RequestKind distinguishes the two pending-request queues.
type RequestKind uint8

const (
	CreateAccount RequestKind = iota
	ImportScan
)

// RequestInfo is a pending admin-approval request.
type RequestInfo struct {
	Kind        RequestKind
	Address     Address
	ViewKey     [32]byte
	StartHeight uint64
}
