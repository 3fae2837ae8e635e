package kvstore

import "go.etcd.io/bbolt"

// DupBucket is a duplicate-key table: each outer key owns an ordered set of
// fixed-size values, keyed internally by a caller-supplied sort key. bbolt
// has no native "dupsort" table (unlike LMDB), so each outer key's value
// set is stored as its own nested bucket, whose entries (sortKey -> value)
// sort the same way bbolt sorts any bucket: byte-lexicographically. Callers
// must therefore encode sort keys so that byte-lexicographic order equals
// the intended numeric/tuple order (big-endian for fixed-width integers),
// independent of whatever endianness the decoded record itself uses on the
// wire.
type DupBucket struct {
	b *bbolt.Bucket
}

// Put inserts or replaces the value stored under (key, sortKey). Only valid
// inside Update.
func (d *DupBucket) Put(key, sortKey, value []byte) error {
	nested, err := d.b.CreateBucketIfNotExists(key)
	if err != nil {
		return err
	}
	return nested.Put(sortKey, value)
}

// Delete removes the single (key, sortKey) entry. Only valid inside Update.
func (d *DupBucket) Delete(key, sortKey []byte) error {
	nested := d.b.Bucket(key)
	if nested == nil {
		return nil
	}
	return nested.Delete(sortKey)
}

// DeleteAll removes every value under key. Only valid inside Update.
func (d *DupBucket) DeleteAll(key []byte) error {
	if d.b.Bucket(key) == nil {
		return nil
	}
	return d.b.DeleteBucket(key)
}

// Values returns a value-iterator over key's value range directly, without
// needing a KeyCursor. Returns an empty (non-nil) cursor if key is absent.
func (d *DupBucket) Values(key []byte) *ValueCursor {
	nested := d.b.Bucket(key)
	if nested == nil {
		return &ValueCursor{}
	}
	return &ValueCursor{c: nested.Cursor()}
}

// KeyCursor returns a move-only key-iterator over this table's outer keys.
func (d *DupBucket) KeyCursor() *KeyCursor {
	return &KeyCursor{outer: d.b, c: d.b.Cursor()}
}

// KeyCursor is a linear, move-only iterator over a duplicate-key table's
// outer keys. Advancing it invalidates any ValueCursor obtained from its
// previous position — in practice this means: finish consuming a key's
// ValueCursor before calling Advance again.
type KeyCursor struct {
	outer *bbolt.Bucket
	c     *bbolt.Cursor
	key   []byte
}

// SeekFirst positions at the smallest outer key.
func (k *KeyCursor) SeekFirst() (key []byte, ok bool) {
	kk, _ := k.c.First()
	k.key = kk
	return kk, kk != nil
}

// SeekKey positions at the smallest outer key >= target.
func (k *KeyCursor) SeekKey(target []byte) (key []byte, ok bool) {
	kk, _ := k.c.Seek(target)
	k.key = kk
	return kk, kk != nil
}

// Advance moves to the next outer key.
func (k *KeyCursor) Advance() (key []byte, ok bool) {
	kk, _ := k.c.Next()
	k.key = kk
	return kk, kk != nil
}

// Values returns a value-iterator over the current outer key's value
// range.
func (k *KeyCursor) Values() *ValueCursor {
	if k.key == nil {
		return &ValueCursor{}
	}
	nested := k.outer.Bucket(k.key)
	if nested == nil {
		return &ValueCursor{}
	}
	return &ValueCursor{c: nested.Cursor()}
}

// ValueCursor is a linear, move-only, lazy iterator over one outer key's
// ordered value set.
type ValueCursor struct {
	c *bbolt.Cursor
}

// First seeks to the smallest value.
func (v *ValueCursor) First() (sortKey, value []byte, ok bool) {
	if v.c == nil {
		return nil, nil, false
	}
	k, val := v.c.First()
	return k, val, k != nil
}

// Advance moves to the next value in order.
func (v *ValueCursor) Advance() (sortKey, value []byte, ok bool) {
	if v.c == nil {
		return nil, nil, false
	}
	k, val := v.c.Next()
	return k, val, k != nil
}

// Projection returns the byte range [offset:offset+length) of a whole
// record the caller has already read, or nil if that range falls outside
// the record. It decodes nothing itself. This is the spec's sanctioned
// "read whole record, then slice" fallback for compile-time field
// projection (bbolt exposes no partial-value read).
func Projection(record []byte, offset, length int) []byte {
	if offset < 0 || length < 0 || offset+length > len(record) {
		return nil
	}
	return record[offset : offset+length]
}
