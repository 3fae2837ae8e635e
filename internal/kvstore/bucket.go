package kvstore

import "go.etcd.io/bbolt"

// Bucket is a unique-key table: one value per key, ordered by raw key
// bytes.
type Bucket struct {
	b *bbolt.Bucket
}

// Get returns the value for key, or nil if absent. The returned slice is
// only valid for the lifetime of the enclosing transaction; callers that
// need to retain it past Reader.Finish must copy it.
func (b *Bucket) Get(key []byte) []byte { return b.b.Get(key) }

// Put inserts or replaces the value for key. Only valid inside Update.
func (b *Bucket) Put(key, value []byte) error { return b.b.Put(key, value) }

// Delete removes key, if present. Only valid inside Update.
func (b *Bucket) Delete(key []byte) error { return b.b.Delete(key) }

// Cursor returns a move-only key cursor over this table's entries in key
// order.
func (b *Bucket) Cursor() *Cursor { return &Cursor{c: b.b.Cursor()} }

// Count returns the number of entries in the table. Used for bounded-queue
// checks (e.g. the pending-request cap); O(leaf pages), not O(1).
func (b *Bucket) Count() int { return b.b.Stats().KeyN }

// Cursor is a linear, move-only iterator over a unique-key table. Copying a
// Cursor value and using both copies concurrently is not supported; pass it
// by moving it into and back out of helper functions, per the account
// store's "cursor as a linear resource" convention.
type Cursor struct {
	c *bbolt.Cursor
}

// First seeks to the smallest key. ok is false if the table is empty.
func (c *Cursor) First() (key, value []byte, ok bool) {
	k, v := c.c.First()
	return k, v, k != nil
}

// Seek positions at the smallest key >= target.
func (c *Cursor) Seek(target []byte) (key, value []byte, ok bool) {
	k, v := c.c.Seek(target)
	return k, v, k != nil
}

// Next advances to the next key in order.
func (c *Cursor) Next() (key, value []byte, ok bool) {
	k, v := c.c.Next()
	return k, v, k != nil
}
