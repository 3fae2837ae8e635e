package accountstore

import "encoding/binary"

// Fixed record sizes, per spec §3's fixed-width little-endian data model.
const (
	addressSize     = 64
	accountSize     = 4 + 32 + 32 + 32 + 1 + 8 + 8 + 4 + 4 // 125
	outputIDSize    = 16
	txLinkSize      = 8 + 32 // 40
	outputSize      = outputIDSize + txLinkSize + 4 + 8 + 4 + 8 + 32 + 32 + 8 + 1 + 1 + 32 + 32 // 218
	spendSize       = outputIDSize + txLinkSize + 32 + 4 + 8 + 8 // 108
	requestInfoSize = 32 + 8
)

// Bucket/table names, per spec §4.C3's physical layout table.
var (
	tableAccountsByAddress = []byte("accounts_by_address")
	tableAccountsByID      = []byte("accounts_by_id")
	tableOutputs           = []byte("outputs")
	tableSpends            = []byte("spends")
	tableImages            = []byte("images")
	tableRequests          = []byte("requests")
	tableBlocks            = []byte("blocks")
)

// --- Key helpers -----------------------------------------------------
//
// Record *values* use the spec's little-endian wire encoding. Record *sort
// keys* (bucket/nested-bucket keys) instead use big-endian for any
// fixed-width integer, because bbolt — like the LMDB the spec models —
// orders keys by raw byte comparison, and only a big-endian encoding makes
// byte order agree with numeric order. This split is a kvstore
// implementation detail; see internal/kvstore's DupBucket doc. Two values
// are big-endian as well: the (status, account_id) reference stored in
// accounts_by_address, which has the same layout as the accounts_by_id
// key, and the next-account-id counter in accounts_by_id.

func encodeAddress(a Address) []byte {
	buf := make([]byte, addressSize)
	copy(buf[0:32], a.SpendPublic[:])
	copy(buf[32:64], a.ViewPublic[:])
	return buf
}

func decodeAddress(buf []byte) Address {
	var a Address
	copy(a.SpendPublic[:], buf[0:32])
	copy(a.ViewPublic[:], buf[32:64])
	return a
}

// accountsByIDKey builds the (status, account_id) key, status first so
// per-status scans are contiguous, account_id big-endian so they sort
// numerically within a status.
func accountsByIDKey(status AccountStatus, id uint32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(status)
	binary.BigEndian.PutUint32(buf[1:], id)
	return buf
}

// outputSortKey builds the big-endian ordering key for an OutputID.
func outputSortKey(id OutputID) []byte {
	buf := make([]byte, outputIDSize)
	binary.BigEndian.PutUint64(buf[0:8], id.BlockHeight)
	binary.BigEndian.PutUint64(buf[8:16], id.Low)
	return buf
}

// spendSortKey builds the big-endian ordering key for (link, source), per
// invariant 2.
func spendSortKey(link TxLink, source OutputID) []byte {
	buf := make([]byte, 8+32+outputIDSize)
	binary.BigEndian.PutUint64(buf[0:8], link.Height)
	copy(buf[8:40], link.TxHash[:])
	copy(buf[40:], outputSortKey(source))
	return buf
}

func accountIDKeyBytes(id uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, id)
	return buf
}

func requestKey(kind RequestKind, addr Address) []byte {
	buf := make([]byte, 1+addressSize)
	buf[0] = byte(kind)
	copy(buf[1:], encodeAddress(addr))
	return buf
}

func blockHeightKey(height uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, height)
	return buf
}

// --- Value codecs (little-endian, per spec §3) -----------------------

func encodeAccount(a Account) []byte {
	buf := make([]byte, accountSize)
	i := 0
	binary.LittleEndian.PutUint32(buf[i:], a.ID)
	i += 4
	copy(buf[i:], a.Address.SpendPublic[:])
	i += 32
	copy(buf[i:], a.Address.ViewPublic[:])
	i += 32
	copy(buf[i:], a.ViewKey[:])
	i += 32
	buf[i] = byte(a.Status)
	i++
	binary.LittleEndian.PutUint64(buf[i:], a.ScanHeight)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:], a.StartHeight)
	i += 8
	binary.LittleEndian.PutUint32(buf[i:], a.AccessTime)
	i += 4
	binary.LittleEndian.PutUint32(buf[i:], a.CreationTime)
	return buf
}

func decodeAccount(buf []byte) Account {
	var a Account
	i := 0
	a.ID = binary.LittleEndian.Uint32(buf[i:])
	i += 4
	copy(a.Address.SpendPublic[:], buf[i:i+32])
	i += 32
	copy(a.Address.ViewPublic[:], buf[i:i+32])
	i += 32
	copy(a.ViewKey[:], buf[i:i+32])
	i += 32
	a.Status = AccountStatus(buf[i])
	i++
	a.ScanHeight = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	a.StartHeight = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	a.AccessTime = binary.LittleEndian.Uint32(buf[i:])
	i += 4
	a.CreationTime = binary.LittleEndian.Uint32(buf[i:])
	return a
}

func encodeOutputID(id OutputID) []byte {
	buf := make([]byte, outputIDSize)
	binary.LittleEndian.PutUint64(buf[0:8], id.BlockHeight)
	binary.LittleEndian.PutUint64(buf[8:16], id.Low)
	return buf
}

func decodeOutputID(buf []byte) OutputID {
	return OutputID{
		BlockHeight: binary.LittleEndian.Uint64(buf[0:8]),
		Low:         binary.LittleEndian.Uint64(buf[8:16]),
	}
}

func encodeTxLink(l TxLink) []byte {
	buf := make([]byte, txLinkSize)
	binary.LittleEndian.PutUint64(buf[0:8], l.Height)
	copy(buf[8:40], l.TxHash[:])
	return buf
}

func decodeTxLink(buf []byte) TxLink {
	var l TxLink
	l.Height = binary.LittleEndian.Uint64(buf[0:8])
	copy(l.TxHash[:], buf[8:40])
	return l
}

func encodeOutput(o Output) []byte {
	buf := make([]byte, outputSize)
	i := 0
	copy(buf[i:], encodeOutputID(o.ID))
	i += outputIDSize
	copy(buf[i:], encodeTxLink(o.Link))
	i += txLinkSize
	binary.LittleEndian.PutUint32(buf[i:], o.Index)
	i += 4
	binary.LittleEndian.PutUint64(buf[i:], o.Amount)
	i += 8
	binary.LittleEndian.PutUint32(buf[i:], o.MixinCount)
	i += 4
	binary.LittleEndian.PutUint64(buf[i:], o.Timestamp)
	i += 8
	copy(buf[i:], o.TxPublic[:])
	i += 32
	copy(buf[i:], o.TxPrefixHash[:])
	i += 32
	binary.LittleEndian.PutUint64(buf[i:], o.UnlockTime)
	i += 8
	buf[i] = byte(o.Flags)
	i++
	buf[i] = o.PaymentIDLen
	i++
	copy(buf[i:], o.RingctMask[:])
	i += 32
	copy(buf[i:], o.PaymentID[:])
	return buf
}

func decodeOutput(buf []byte) Output {
	var o Output
	i := 0
	o.ID = decodeOutputID(buf[i:])
	i += outputIDSize
	o.Link = decodeTxLink(buf[i:])
	i += txLinkSize
	o.Index = binary.LittleEndian.Uint32(buf[i:])
	i += 4
	o.Amount = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	o.MixinCount = binary.LittleEndian.Uint32(buf[i:])
	i += 4
	o.Timestamp = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	copy(o.TxPublic[:], buf[i:i+32])
	i += 32
	copy(o.TxPrefixHash[:], buf[i:i+32])
	i += 32
	o.UnlockTime = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	o.Flags = OutputFlags(buf[i])
	i++
	o.PaymentIDLen = buf[i]
	i++
	copy(o.RingctMask[:], buf[i:i+32])
	i += 32
	copy(o.PaymentID[:], buf[i:i+32])
	return o
}

func encodeSpend(s Spend) []byte {
	buf := make([]byte, spendSize)
	i := 0
	copy(buf[i:], encodeOutputID(s.Source))
	i += outputIDSize
	copy(buf[i:], encodeTxLink(s.Link))
	i += txLinkSize
	copy(buf[i:], s.Image[:])
	i += 32
	binary.LittleEndian.PutUint32(buf[i:], s.MixinCount)
	i += 4
	binary.LittleEndian.PutUint64(buf[i:], s.Timestamp)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:], s.UnlockTime)
	return buf
}

func decodeSpend(buf []byte) Spend {
	var s Spend
	i := 0
	s.Source = decodeOutputID(buf[i:])
	i += outputIDSize
	s.Link = decodeTxLink(buf[i:])
	i += txLinkSize
	copy(s.Image[:], buf[i:i+32])
	i += 32
	s.MixinCount = binary.LittleEndian.Uint32(buf[i:])
	i += 4
	s.Timestamp = binary.LittleEndian.Uint64(buf[i:])
	i += 8
	s.UnlockTime = binary.LittleEndian.Uint64(buf[i:])
	return s
}

func encodeRequestInfo(r RequestInfo) []byte {
	buf := make([]byte, requestInfoSize)
	copy(buf[0:32], r.ViewKey[:])
	binary.LittleEndian.PutUint64(buf[32:40], r.StartHeight)
	return buf
}

func decodeRequestInfo(kind RequestKind, addr Address, buf []byte) RequestInfo {
	var r RequestInfo
	r.Kind = kind
	r.Address = addr
	copy(r.ViewKey[:], buf[0:32])
	r.StartHeight = binary.LittleEndian.Uint64(buf[32:40])
	return r
}
