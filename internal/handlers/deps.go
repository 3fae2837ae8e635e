package handlers

import (
	logrus "github.com/sirupsen/logrus"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/oracle"
)

// Deps are the dependencies every handler closes over. One Deps is built
// at startup and shared by all requests; accountstore.Store and
// oracle.Client are themselves safe for concurrent use.
type Deps struct {
	Store  *accountstore.Store
	Oracle *oracle.Client
	Log    *logrus.Logger

	// CoinbaseUnlockWindow is the number of blocks a coinbase output must
	// age before it unlocks (spec §4.C7 step 3).
	CoinbaseUnlockWindow uint64
	// MaxBlockNumber is the is_locked disambiguation threshold: an
	// unlock_time above it is a unix timestamp, at or below it a block
	// height (spec §8's boundary behaviour).
	MaxBlockNumber uint64
}

func (d *Deps) logger() *logrus.Logger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// chainHeight reports the most recently recorded block height, i.e. the
// scanner's view of the chain tip. Returns 0 if no blocks have been
// recorded yet.
func chainHeight(blocks []accountstore.BlockRef) uint64 {
	var max uint64
	for _, b := range blocks {
		if b.Height > max {
			max = b.Height
		}
	}
	return max
}
