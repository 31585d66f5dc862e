package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/geodrop/errors"
)

// btreeDegree of the pending writes tree.
const btreeDegree = 2

// BTreeCacheable adds a btree based CacheWrap to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that is written to the wrapped store on
// Write and dropped on Discard.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store without any persistence. Use it in tests.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// ShowOpser returns an ordered list of all operations performed
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in memory store together with a view of every
// write that reached it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var empty EmptyKVStore
	ops := NewNonAtomicBatch(empty)
	return NewBTreeCacheWrap(empty, ops, nil), ops
}

// BTreeCacheWrap keeps pending writes in a btree ordered by key, on top
// of a read only parent. Writes are mirrored into a batch that reaches
// the parent on Write.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over parent. All writes must go
// through batch so that the parent is untouched until Write.
//
// Nested caches share free to reuse btree nodes. A nil free allocates a
// new list.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(btreeDegree, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
	if d, ok := b.batch.(discarder); ok {
		d.discard()
	}
}

// discarder is implemented by batches that can drop pending operations
type discarder interface {
	discard()
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(&entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(&entry{key: key, tombstone: true})
	return b.batch.Delete(key)
}

// Get returns the pending value of key or, if key was not written in
// this cache, the value of the parent.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, err := b.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case e == nil:
		return b.parent.Get(key)
	case e.tombstone:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, err := b.lookup(key)
	switch {
	case err != nil:
		return false, err
	case e == nil:
		return b.parent.Has(key)
	default:
		return !e.tombstone, nil
	}
}

func (b BTreeCacheWrap) lookup(key []byte) (*entry, error) {
	item := b.pending.Get(&entry{key: key})
	if item == nil {
		return nil, nil
	}
	e, ok := item.(*entry)
	if !ok {
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
	return e, nil
}

// Iterator merges pending writes with the parent over [start, end) in
// ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(collectBtree(b.pending, start, end), it, false), nil
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	it, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := collectBtree(b.pending, start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newItemIter(entries, it, true), nil
}

// entry is a pending write. A tombstone hides the key in the parent.
type entry struct {
	key       []byte
	value     []byte
	tombstone bool
}

var _ btree.Item = (*entry)(nil)

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}
