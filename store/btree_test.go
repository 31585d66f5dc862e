package store

import (
	"testing"

	"github.com/iov-one/geodrop/geodroptest/assert"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheLayers(t *testing.T) {
	NewTestSuite(makeBase).CacheLayers(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(makeBase).CacheConflicts(t)
}

func TestBTreeRandomIteration(t *testing.T) {
	NewTestSuite(makeBase).RandomIteration(t)
}

func TestBTreePrefixRanges(t *testing.T) {
	NewTestSuite(makeBase).PrefixRanges(t)
}

func TestNestedCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("drop:1"), []byte("one")))

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set([]byte("drop:2"), []byte("two")))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Delete([]byte("drop:1")))
	assert.Nil(t, inner.Set([]byte("drop:3"), []byte("three")))
	inner.Discard()

	// a discarded cache must not leak anything, even on a later write
	assert.Nil(t, inner.Write())
	val, err := outer.Get([]byte("drop:1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), val)
	has, err := outer.Has([]byte("drop:3"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, outer.Write())
	val, err = base.Get([]byte("drop:2"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), val)
}

func TestLogableStore(t *testing.T) {
	kv, ops := LogableStore()
	assert.Nil(t, kv.Set([]byte("a"), []byte("A")))
	assert.Nil(t, kv.Delete([]byte("b")))

	got := ops.ShowOps()
	assert.Equal(t, 2, len(got))
	assert.Equal(t, true, got[0].IsSetOp())
	assert.Equal(t, []byte("a"), got[0].Key())
	assert.Equal(t, []byte("A"), got[0].Value())
	assert.Equal(t, false, got[1].IsSetOp())
	assert.Equal(t, []byte("b"), got[1].Key())
}
