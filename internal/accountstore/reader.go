package accountstore

import (
	"encoding/binary"
	"errors"
	"runtime"

	"synnergy-network/internal/kvstore"
)

// Reader is a per-request read snapshot (spec §4.C4). It borrows one MVCC
// transaction; every cursor obtained from it observes that same snapshot.
// Call Finish when done — in particular, before making any upstream oracle
// call, so the snapshot's pages aren't pinned across network I/O. A Reader
// that is dropped without an explicit Finish is still released via a
// finalizer, as a last-resort safety net; handlers should not rely on it.
type Reader struct {
	tx       *kvstore.Tx
	finished bool
}

func newReader(tx *kvstore.Tx) *Reader {
	r := &Reader{tx: tx}
	runtime.SetFinalizer(r, func(r *Reader) { _ = r.Finish() })
	return r
}

// Finish releases the snapshot. Safe to call more than once.
func (r *Reader) Finish() error {
	if r.finished {
		return nil
	}
	r.finished = true
	runtime.SetFinalizer(r, nil)
	return r.tx.Rollback()
}

// AccountByAddress is the address-keyed lookup used by every
// address-bearing endpoint. It performs no authentication itself; spec
// §4.C6's check (internal/auth) runs before it.
func (r *Reader) AccountByAddress(addr Address) (*Account, bool, error) {
	byAddr := r.tx.Bucket(tableAccountsByAddress)
	v := byAddr.Get(encodeAddress(addr))
	if v == nil {
		return nil, false, nil
	}
	status := AccountStatus(v[0])
	id := binary.BigEndian.Uint32(v[1:5])
	byID := r.tx.Bucket(tableAccountsByID)
	full := byID.Get(accountsByIDKey(status, id))
	if full == nil {
		return nil, false, errors.New("accountstore: accounts_by_address entry with no matching accounts_by_id record")
	}
	acc := decodeAccount(full)
	return &acc, true, nil
}

// OutputCursor is a lazy, move-only iterator over one account's received
// outputs, in ascending output.id order (invariant 2).
type OutputCursor struct {
	vc *kvstore.ValueCursor
}

// Outputs opens an output cursor for accountID.
func (r *Reader) Outputs(accountID uint32) *OutputCursor {
	d := r.tx.DupBucket(tableOutputs)
	return &OutputCursor{vc: d.Values(accountIDKeyBytes(accountID))}
}

// First returns the first output, if any.
func (c *OutputCursor) First() (Output, bool) {
	_, v, ok := c.vc.First()
	if !ok {
		return Output{}, false
	}
	return decodeOutput(v), true
}

// Advance returns the next output, if any.
func (c *OutputCursor) Advance() (Output, bool) {
	_, v, ok := c.vc.Advance()
	if !ok {
		return Output{}, false
	}
	return decodeOutput(v), true
}

// SpendCursor is a lazy, move-only iterator over one account's detected
// spends, in ascending (link, source) order (invariant 2).
type SpendCursor struct {
	vc *kvstore.ValueCursor
}

// Spends opens a spend cursor for accountID.
func (r *Reader) Spends(accountID uint32) *SpendCursor {
	d := r.tx.DupBucket(tableSpends)
	return &SpendCursor{vc: d.Values(accountIDKeyBytes(accountID))}
}

// First returns the first spend, if any.
func (c *SpendCursor) First() (Spend, bool) {
	_, v, ok := c.vc.First()
	if !ok {
		return Spend{}, false
	}
	return decodeSpend(v), true
}

// Advance returns the next spend, if any.
func (c *SpendCursor) Advance() (Spend, bool) {
	_, v, ok := c.vc.Advance()
	if !ok {
		return Spend{}, false
	}
	return decodeSpend(v), true
}

// Images returns every key-image that consumed the output id, ascending.
func (r *Reader) Images(id OutputID) [][32]byte {
	d := r.tx.DupBucket(tableImages)
	vc := d.Values(outputSortKey(id))
	var out [][32]byte
	for sk, _, ok := vc.First(); ok; sk, _, ok = vc.Advance() {
		var img [32]byte
		copy(img[:], sk)
		out = append(out, img)
	}
	return out
}

// RecentBlocks returns the retained block-hash window, ascending by
// height.
func (r *Reader) RecentBlocks() []BlockRef {
	b := r.tx.Bucket(tableBlocks)
	if b == nil {
		return nil
	}
	var out []BlockRef
	c := b.Cursor()
	for k, v, ok := c.First(); ok; k, v, ok = c.Next() {
		var ref BlockRef
		ref.Height = binary.BigEndian.Uint64(k)
		copy(ref.Hash[:], v)
		out = append(out, ref)
	}
	return out
}

// PendingRequest looks up a pending (kind, address) request.
func (r *Reader) PendingRequest(kind RequestKind, addr Address) (*RequestInfo, bool) {
	reqs := r.tx.Bucket(tableRequests)
	v := reqs.Get(requestKey(kind, addr))
	if v == nil {
		return nil, false
	}
	info := decodeRequestInfo(kind, addr, v)
	return &info, true
}
