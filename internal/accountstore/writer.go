package accountstore

import (
	"encoding/binary"

	"synnergy-network/internal/kvstore"
	"synnergy-network/internal/result"
)

// nextIDKey is a reserved sentinel key inside accounts_by_id holding the
// monotonic next-account-id counter. It sorts after every real
// (status, account_id) key, since status is always < 0xFF in practice, so
// a prefix or range scan over a real status never observes it; the counter
// itself is only ever read and written via a direct Get/Put, not a scan.
var nextIDKey = []byte{0xFF}

// Writer is the store's single serialised-mutation entry point (spec
// §4.C5). All methods open and commit their own transaction; callers do not
// nest writes.
type Writer struct {
	store *Store
}

// CreateAccountRequest enqueues a CreateAccount request for address, per
// §4.C5's creation_request.
func (w *Writer) CreateAccountRequest(addr Address, viewKey [32]byte) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		if err := checkAccountAbsent(tx, addr); err != nil {
			return err
		}
		return insertRequest(tx, w.store.requestQueueMax, RequestInfo{
			Kind:    CreateAccount,
			Address: addr,
			ViewKey: viewKey,
		})
	}))
}

// ImportRequest enqueues an ImportScan request for an already-promoted
// account, per §4.C5's import_request.
func (w *Writer) ImportRequest(addr Address, startHeight uint64) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		return insertRequest(tx, w.store.requestQueueMax, RequestInfo{
			Kind:        ImportScan,
			Address:     addr,
			StartHeight: startHeight,
		})
	}))
}

// ApproveRequest promotes a pending request: for CreateAccount it mints a
// new Account with status Active; for ImportScan it resets scan_height to
// start_height on the existing account. Either way the pending request is
// consumed. This method models the "external admin approval path" the
// spec places outside the core; it lives here because it is the only thing
// that assigns account ids.
func (w *Writer) ApproveRequest(kind RequestKind, addr Address) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		reqs := tx.Bucket(tableRequests)
		key := requestKey(kind, addr)
		raw := reqs.Get(key)
		if raw == nil {
			return result.NewError(result.NoSuchAccount, "no pending request for this (kind, address)")
		}
		info := decodeRequestInfo(kind, addr, raw)

		switch kind {
		case CreateAccount:
			byID := tx.Bucket(tableAccountsByID)
			id, err := nextAccountID(byID)
			if err != nil {
				return err
			}
			acc := Account{
				ID:          id,
				Address:     addr,
				ViewKey:     info.ViewKey,
				Status:      Active,
				ScanHeight:  0,
				StartHeight: 0,
			}
			if err := putAccount(tx, acc); err != nil {
				return err
			}
		case ImportScan:
			byAddr := tx.Bucket(tableAccountsByAddress)
			v := byAddr.Get(encodeAddress(addr))
			if v == nil {
				return result.NewError(result.NoSuchAccount, "address has no promoted account")
			}
			status := AccountStatus(v[0])
			id := binary.BigEndian.Uint32(v[1:5])
			byID := tx.Bucket(tableAccountsByID)
			full := byID.Get(accountsByIDKey(status, id))
			acc := decodeAccount(full)
			acc.ScanHeight = info.StartHeight
			acc.StartHeight = info.StartHeight
			if err := putAccount(tx, acc); err != nil {
				return err
			}
		}
		return reqs.Delete(key)
	}))
}

// RejectRequest discards a pending request without promoting it.
func (w *Writer) RejectRequest(kind RequestKind, addr Address) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		reqs := tx.Bucket(tableRequests)
		key := requestKey(kind, addr)
		if reqs.Get(key) == nil {
			return result.NewError(result.NoSuchAccount, "no pending request for this (kind, address)")
		}
		return reqs.Delete(key)
	}))
}

// RecordBlock appends a block reference to the retained window, evicting
// the oldest entry once blockBufferSize is reached.
func (w *Writer) RecordBlock(ref BlockRef) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		b, err := tx.CreateBucketIfNotExists(tableBlocks)
		if err != nil {
			return err
		}
		if b.Count() >= w.store.blockBufferSize {
			c := b.Cursor()
			if oldest, _, ok := c.First(); ok {
				if err := b.Delete(oldest); err != nil {
					return err
				}
			}
		}
		var hash [32]byte
		copy(hash[:], ref.Hash[:])
		return b.Put(blockHeightKey(ref.Height), hash[:])
	}))
}

// AppendOutput records a scanner-observed output against accountID. Only
// called by the chain scanner / its test doubles; the core itself never
// writes outputs.
func (w *Writer) AppendOutput(accountID uint32, o Output) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		d, err := tx.CreateDupBucketIfNotExists(tableOutputs)
		if err != nil {
			return err
		}
		return d.Put(accountIDKeyBytes(accountID), outputSortKey(o.ID), encodeOutput(o))
	}))
}

// AppendSpend records a scanner-observed spend against accountID. Enforces
// invariant 1 (the spent output must already be on record) before writing.
func (w *Writer) AppendSpend(accountID uint32, s Spend) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		outputs := tx.DupBucket(tableOutputs)
		if outputs == nil {
			return result.NewError(result.InternalInvariantViolation, "spend recorded before any output exists for account")
		}
		vc := outputs.Values(accountIDKeyBytes(accountID))
		found := false
		for sk, _, ok := vc.First(); ok; sk, _, ok = vc.Advance() {
			if string(sk) == string(outputSortKey(s.Source)) {
				found = true
				break
			}
		}
		if !found {
			return result.NewError(result.InternalInvariantViolation, "spend source output does not exist")
		}
		d, err := tx.CreateDupBucketIfNotExists(tableSpends)
		if err != nil {
			return err
		}
		return d.Put(accountIDKeyBytes(accountID), spendSortKey(s.Link, s.Source), encodeSpend(s))
	}))
}

// AppendImage records a key-image that consumed id.
func (w *Writer) AppendImage(id OutputID, image [32]byte) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		d, err := tx.CreateDupBucketIfNotExists(tableImages)
		if err != nil {
			return err
		}
		return d.Put(outputSortKey(id), image[:], image[:])
	}))
}

// UpdateScanHeight advances an account's scan_height. Enforces invariant 3
// (scan_height >= start_height) before writing.
func (w *Writer) UpdateScanHeight(accountID uint32, height uint64) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		byID := tx.Bucket(tableAccountsByID)
		acc, key, err := findAccountByID(byID, accountID)
		if err != nil {
			return err
		}
		if height < acc.StartHeight {
			return result.NewError(result.InternalInvariantViolation, "scan_height would fall below start_height")
		}
		acc.ScanHeight = height
		return byID.Put(key, encodeAccount(acc))
	}))
}

// SetStatus transitions an account between Active, Inactive and Hidden.
// There is no endpoint that calls this directly — it models the
// out-of-core admin action the spec places status changes under (e.g.
// hiding an account for moderation) — but it is exercised by tests and by
// the db subcommand that operators use for that purpose.
func (w *Writer) SetStatus(accountID uint32, status AccountStatus) *result.Error {
	return asError(w.store.db.Update(func(tx *kvstore.Tx) error {
		byID := tx.Bucket(tableAccountsByID)
		acc, oldKey, err := findAccountByID(byID, accountID)
		if err != nil {
			return err
		}
		if acc.Status == status {
			return nil
		}
		if err := byID.Delete(oldKey); err != nil {
			return err
		}
		acc.Status = status
		return putAccount(tx, acc)
	}))
}

// asError normalises the plain error a kvstore transaction returns into the
// carrier's *result.Error shape: a *result.Error passes through unchanged, a
// nil error stays nil, and anything else (a bbolt I/O failure) is wrapped
// as an internal invariant violation.
func asError(err error) *result.Error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*result.Error); ok {
		return re
	}
	return result.NewError(result.InternalInvariantViolation, "store I/O failure").Wrap(err)
}

// --- helpers -----------------------------------------------------------

func checkAccountAbsent(tx *kvstore.Tx, addr Address) error {
	byAddr := tx.Bucket(tableAccountsByAddress)
	if byAddr.Get(encodeAddress(addr)) != nil {
		return result.NewError(result.AccountExists, "address already has a promoted account")
	}
	return nil
}

func insertRequest(tx *kvstore.Tx, queueMax int, info RequestInfo) error {
	reqs := tx.Bucket(tableRequests)
	key := requestKey(info.Kind, info.Address)
	if reqs.Get(key) != nil {
		return result.NewError(result.DuplicateRequest, "a request of this kind already exists for this address")
	}
	if reqs.Count() >= queueMax {
		return result.NewError(result.CreateQueueMax, "pending request queue is full")
	}
	return reqs.Put(key, encodeRequestInfo(info))
}

func putAccount(tx *kvstore.Tx, acc Account) error {
	byAddr := tx.Bucket(tableAccountsByAddress)
	byID := tx.Bucket(tableAccountsByID)

	ref := make([]byte, 5)
	ref[0] = byte(acc.Status)
	binary.BigEndian.PutUint32(ref[1:], acc.ID)
	if err := byAddr.Put(encodeAddress(acc.Address), ref); err != nil {
		return err
	}
	return byID.Put(accountsByIDKey(acc.Status, acc.ID), encodeAccount(acc))
}

func nextAccountID(byID *kvstore.Bucket) (uint32, error) {
	raw := byID.Get(nextIDKey)
	var id uint32
	if raw != nil {
		id = binary.BigEndian.Uint32(raw)
	}
	next := make([]byte, 4)
	binary.BigEndian.PutUint32(next, id+1)
	if err := byID.Put(nextIDKey, next); err != nil {
		return 0, err
	}
	return id, nil
}

func findAccountByID(byID *kvstore.Bucket, accountID uint32) (Account, []byte, error) {
	for _, status := range []AccountStatus{Active, Inactive, Hidden} {
		key := accountsByIDKey(status, accountID)
		if v := byID.Get(key); v != nil {
			return decodeAccount(v), key, nil
		}
	}
	return Account{}, nil, result.NewError(result.NoSuchAccount, "no account with this id")
}
