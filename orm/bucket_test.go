package orm

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest/assert"
	"github.com/iov-one/geodrop/store"
)

type counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func (c *counter) Reset()         { *c = counter{} }
func (c *counter) String() string { return proto.CompactTextString(c) }
func (*counter) ProtoMessage()    {}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative count")
	}
	return nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("c1"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}
	raw, err := db.Get([]byte("cnts:c1"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("model not stored under the bucket prefix")
	}

	var c1 counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}

	has, err := b.Has(db, []byte("c1"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	assert.IsErr(t, errors.ErrInvalidModel, b.Put(db, []byte("c1"), &counter{Count: -1}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &counter{Count: 1}))

	has, err := b.Has(db, []byte("c1"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestModelBucketRange(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")
	other := NewModelBucket("cnts_x")

	for i := uint64(1); i <= 5; i++ {
		assert.Nil(t, b.Put(db, EncodeSequence(i), &counter{Count: int64(i)}))
	}
	// a bucket sharing the name prefix must not leak into the range
	assert.Nil(t, other.Put(db, EncodeSequence(9), &counter{Count: 9}))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []int64
	}{
		"all ascending": {
			want: []int64{1, 2, 3, 4, 5},
		},
		"all descending": {
			reverse: true,
			want:    []int64{5, 4, 3, 2, 1},
		},
		"descending before cursor": {
			end:     EncodeSequence(4),
			reverse: true,
			want:    []int64{3, 2, 1},
		},
		"ascending window": {
			start: EncodeSequence(2),
			end:   EncodeSequence(4),
			want:  []int64{2, 3},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var it *ModelIterator
			var err error
			if tc.reverse {
				it, err = b.ReverseRange(db, tc.start, tc.end)
			} else {
				it, err = b.Range(db, tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			var got []int64
			for {
				var c counter
				key, err := it.LoadNext(&c)
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				assert.Nil(t, err)
				id, err := DecodeSequence(key)
				assert.Nil(t, err)
				assert.Equal(t, uint64(c.Count), id)
				got = append(got, c.Count)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("no") })
	assert.Panics(t, func() { NewModelBucket("Upper") })
	assert.Panics(t, func() { NewModelBucket("_c:drop") })
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("drop;"), prefixEnd([]byte("drop:")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
