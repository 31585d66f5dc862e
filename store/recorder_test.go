package store

import (
	"testing"

	"github.com/iov-one/geodrop/geodroptest/assert"
)

func TestRecordingStore(t *testing.T) {
	db := NewRecordingStore(MemStore())
	rec, ok := db.(Recorder)
	if !ok {
		t.Fatal("recording store must implement Recorder")
	}

	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	assert.Nil(t, db.Delete([]byte("b")))

	cache := db.(CacheableKVStore).CacheWrap()
	assert.Nil(t, cache.Set([]byte("c"), []byte("C")))
	// nothing recorded until the cache is written
	assert.Equal(t, 2, len(rec.KVPairs()))
	assert.Nil(t, cache.Write())

	want := map[string][]byte{
		"a": []byte("A"),
		"b": nil,
		"c": []byte("C"),
	}
	assert.Equal(t, want, rec.KVPairs())
}

func TestRecordingStoreDiscard(t *testing.T) {
	db := NewRecordingStore(MemStore())
	rec := db.(Recorder)

	cache := db.(CacheableKVStore).CacheWrap()
	assert.Nil(t, cache.Set([]byte("c"), []byte("C")))
	cache.Discard()

	assert.Equal(t, 0, len(rec.KVPairs()))
}

func TestRecordingBatch(t *testing.T) {
	db := NewRecordingStore(MemStore())
	rec := db.(Recorder)

	batch := db.NewBatch()
	assert.Nil(t, batch.Set(seqKey("drop:", 1), []byte("open")))
	assert.Nil(t, batch.Delete(seqKey("drop:", 2)))
	assert.Equal(t, 0, len(rec.KVPairs()))

	assert.Nil(t, batch.Write())
	want := map[string][]byte{
		string(seqKey("drop:", 1)): []byte("open"),
		string(seqKey("drop:", 2)): nil,
	}
	assert.Equal(t, want, rec.KVPairs())

	val, err := db.Get(seqKey("drop:", 1))
	assert.Nil(t, err)
	assert.Equal(t, []byte("open"), val)
}
