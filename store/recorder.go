package store

// Recorder exposes the writes captured by a store returned from
// NewRecordingStore. Keys map to the written value, nil for a delete.
type Recorder interface {
	KVPairs() map[string][]byte
}

// NewRecordingStore wraps db and records every key written through it,
// directly, through a batch, or through a written cache. A discarded
// cache leaves no record.
//
// The result is a CacheableKVStore whenever db is one.
func NewRecordingStore(db KVStore) KVStore {
	rec := &recordingStore{KVStore: db, changes: changeLog{}}
	if _, ok := db.(CacheableKVStore); ok {
		return cacheableRecordingStore{rec}
	}
	return rec
}

type changeLog map[string][]byte

type recordingStore struct {
	KVStore
	changes changeLog
}

var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.KVStore.Set(key, value)
}

func (r *recordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.KVStore.Delete(key)
}

func (r *recordingStore) NewBatch() Batch {
	return &recordingBatch{Batch: r.KVStore.NewBatch(), changes: r.changes}
}

// cacheableRecordingStore records the writes of its caches once they are
// written.
type cacheableRecordingStore struct {
	*recordingStore
}

var _ CacheableKVStore = cacheableRecordingStore{}

func (r cacheableRecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r.recordingStore, r.NewBatch(), nil)
}

// recordingBatch records its operations only once they are written.
type recordingBatch struct {
	Batch
	changes changeLog
	pending []Op
}

var _ discarder = (*recordingBatch)(nil)

func (b *recordingBatch) Set(key, value []byte) error {
	b.pending = append(b.pending, SetOp(key, value))
	return b.Batch.Set(key, value)
}

func (b *recordingBatch) Delete(key []byte) error {
	b.pending = append(b.pending, DelOp(key))
	return b.Batch.Delete(key)
}

func (b *recordingBatch) Write() error {
	if err := b.Batch.Write(); err != nil {
		return err
	}
	for _, op := range b.pending {
		if op.IsSetOp() {
			b.changes[string(op.key)] = op.value
		} else {
			b.changes[string(op.key)] = nil
		}
	}
	b.pending = nil
	return nil
}

func (b *recordingBatch) discard() {
	b.pending = nil
	if d, ok := b.Batch.(discarder); ok {
		d.discard()
	}
}
