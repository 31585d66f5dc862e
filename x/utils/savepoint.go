package utils

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct{}

var _ geodrop.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Deliver runs next on a cache of store. The cache is written only if
// next succeeded. Stores that cannot be cached are passed through.
func (s Savepoint) Deliver(ctx geodrop.Context, store geodrop.KVStore, tx geodrop.Tx, next geodrop.Handler) (*geodrop.DeliverResult, error) {
	cstore, ok := store.(geodrop.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
