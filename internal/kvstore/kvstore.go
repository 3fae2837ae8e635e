// Package kvstore wraps go.etcd.io/bbolt behind the typed, named-table
// ordered key-value contract described by the account store: unique-key
// tables, duplicate-key tables whose values are ordered and fixed-size, and
// snapshot-isolated read transactions concurrent with a single serialised
// writer. bbolt's own B+tree gives us the MVCC snapshot and single-writer
// guarantees for free; this package adds the duplicate-key emulation (via
// one nested bucket per outer key) and the move-only cursor shapes the spec
// calls for.
package kvstore

import (
	"time"

	"go.etcd.io/bbolt"
)

// DB is a process-wide shared handle onto one bbolt environment.
type DB struct {
	bolt *bbolt.DB
}

// Open creates or opens the environment at path. timeout bounds how long
// Open waits to acquire the on-disk flock if another process holds it.
func Open(path string, timeout time.Duration) (*DB, error) {
	b, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return &DB{bolt: b}, nil
}

// Close releases the environment. bbolt's Close blocks until every open
// transaction, including an unfinished Reader's, has ended.
func (db *DB) Close() error { return db.bolt.Close() }

// View opens a read-only snapshot transaction and hands it to fn. The
// transaction is always rolled back (read-only transactions have nothing to
// commit) once fn returns.
func (db *DB) View(fn func(*Tx) error) error {
	return db.bolt.View(func(btx *bbolt.Tx) error {
		return fn(&Tx{bolt: btx})
	})
}

// Update runs fn inside the single serialised writer transaction. bbolt
// itself enforces that only one Update runs at a time process-wide, which
// is the "single writer mutex implicit in the store" the spec calls for.
func (db *DB) Update(fn func(*Tx) error) error {
	return db.bolt.Update(func(btx *bbolt.Tx) error {
		return fn(&Tx{bolt: btx})
	})
}

// Begin opens a manual read-only snapshot transaction that is not bound to
// a callback's lifetime — the shape a per-request Reader needs, since a
// handler opens one at the start of a request and explicitly finishes it
// later, possibly after several unrelated calls. Pair with Tx.Rollback.
func (db *DB) Begin() (*Tx, error) {
	btx, err := db.bolt.Begin(false)
	if err != nil {
		return nil, err
	}
	return &Tx{bolt: btx}, nil
}

// Rollback releases a transaction opened with Begin. Read-only
// transactions have nothing to commit, so Rollback is always the correct
// way to end one.
func (t *Tx) Rollback() error { return t.bolt.Rollback() }

// Tx is either a read snapshot or the (exclusive) writer transaction,
// depending on whether it came from View or Update.
type Tx struct {
	bolt *bbolt.Tx
}

// Bucket opens a unique-key table. It returns nil if the table does not
// exist (Update callers should use CreateBucketIfNotExists instead).
func (t *Tx) Bucket(name []byte) *Bucket {
	b := t.bolt.Bucket(name)
	if b == nil {
		return nil
	}
	return &Bucket{b: b}
}

// CreateBucketIfNotExists opens (creating if absent) a unique-key table.
// Only valid inside an Update transaction.
func (t *Tx) CreateBucketIfNotExists(name []byte) (*Bucket, error) {
	b, err := t.bolt.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, err
	}
	return &Bucket{b: b}, nil
}

// DupBucket opens a duplicate-key table (outer bucket whose values are
// themselves nested ordered buckets). Returns nil if absent.
func (t *Tx) DupBucket(name []byte) *DupBucket {
	b := t.bolt.Bucket(name)
	if b == nil {
		return nil
	}
	return &DupBucket{b: b}
}

// CreateDupBucketIfNotExists opens (creating if absent) a duplicate-key
// table. Only valid inside an Update transaction.
func (t *Tx) CreateDupBucketIfNotExists(name []byte) (*DupBucket, error) {
	b, err := t.bolt.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, err
	}
	return &DupBucket{b: b}, nil
}
