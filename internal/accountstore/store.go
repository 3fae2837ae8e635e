package accountstore

import (
	"time"

	"synnergy-network/internal/kvstore"
)

// Store owns the shared KV environment for one light-wallet server
// process. It is safe for concurrent use: readers and the writer each
// obtain their own transaction.
type Store struct {
	db              *kvstore.DB
	blockBufferSize int
	requestQueueMax int
}

// Open creates or opens the on-disk environment at path and ensures all
// schema tables exist.
func Open(path string, timeout time.Duration, blockBufferSize, requestQueueMax int) (*Store, error) {
	db, err := kvstore.Open(path, timeout)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, blockBufferSize: blockBufferSize, requestQueueMax: requestQueueMax}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	return s.db.Update(func(tx *kvstore.Tx) error {
		for _, name := range [][]byte{tableAccountsByAddress, tableAccountsByID, tableRequests, tableBlocks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		for _, name := range [][]byte{tableOutputs, tableSpends, tableImages} {
			if _, err := tx.CreateDupBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the environment.
func (s *Store) Close() error { return s.db.Close() }

// NewReader opens a read snapshot per spec §4.C4: all cursors obtained from
// it observe one consistent MVCC snapshot until Finish is called.
func (s *Store) NewReader() (*Reader, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return newReader(tx), nil
}

// Writer returns the store's single serialised-mutation entry point.
func (s *Store) Writer() *Writer { return &Writer{store: s} }
