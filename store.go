package geodrop

// ReadOnlyKVStore is the read side of every store. Keys are never nil.
type ReadOnlyKVStore interface {
	// Get returns nil when key is missing.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound
	// leaves that side open. The range must not be written while the
	// iterator is in use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Callers must
// not modify key or value after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what handlers and controllers receive. Drops, stats,
// wallets, nonces and config records all live in one KVStore under
// distinct key prefixes.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that writes its operations together.
	NewBatch() Batch
}

// Batch collects writes and applies them to its store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator returns key value pairs one at a time.
//
//   it, err := db.Iterator(start, end)
//   if err != nil {
//       return err
//   }
//   defer it.Release()
//   for {
//       key, value, err := it.Next()
//       if errors.ErrIteratorDone.Is(err) {
//           break
//       } else if err != nil {
//           return err
//       }
//       ...
//   }
type Iterator interface {
	// Next returns the next pair, or errors.ErrIteratorDone once the
	// range is exhausted.
	Next() (key, value []byte, err error)

	Release()
}

// CacheableKVStore can stack a cache over itself. A transaction runs in
// such a cache and only a successful one is written back.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds writes that are visible through the cache but not in
// its parent until Write. Discard drops them. Caches nest.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is the root store of an application. State changes reach
// it through CacheWrap and Write and become durable on Commit, one
// version per commit.
type CommitKVStore interface {
	// Get reads the latest committed state.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists all written caches as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion opens the last complete version found on disk.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
