//nolint
package store

import "github.com/iov-one/geodrop"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = geodrop.ReadOnlyKVStore
type SetDeleter = geodrop.SetDeleter
type KVStore = geodrop.KVStore
type Batch = geodrop.Batch
type Iterator = geodrop.Iterator
type CacheableKVStore = geodrop.CacheableKVStore
type KVCacheWrap = geodrop.KVCacheWrap
type CommitKVStore = geodrop.CommitKVStore
type CommitID = geodrop.CommitID
