package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/geodrop/errors"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the same behaviour checks against any CacheableKVStore
// implementation. The btree store and the iavl adapter both use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns an empty store and a function that
// releases it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite creating a fresh store for every check.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// CacheLayers checks that writes travel through nested cache wraps
// only when each layer is written, the way a handler savepoint runs
// inside a transaction cache.
func (s *TestSuite) CacheLayers(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	conf, confV := []byte("_c:drop"), []byte("token")
	first, firstV := seqKey("drop:", 1), []byte("first")
	second, secondV := seqKey("drop:", 2), []byte("second")

	s.AssertGetHas(t, base, conf, nil, false)
	require.NoError(t, base.Set(conf, confV))
	s.AssertGetHas(t, base, conf, confV, true)

	tx := base.CacheWrap()
	s.AssertGetHas(t, tx, conf, confV, true)
	require.NoError(t, tx.Set(first, firstV))
	s.AssertGetHas(t, base, first, nil, false)

	// A failed savepoint leaves the transaction cache as it was.
	failed := tx.CacheWrap()
	require.NoError(t, failed.Set(second, secondV))
	require.NoError(t, failed.Delete(first))
	s.AssertGetHas(t, failed, first, nil, false)
	failed.Discard()
	s.AssertGetHas(t, tx, first, firstV, true)
	s.AssertGetHas(t, tx, second, nil, false)

	ok := tx.CacheWrap()
	require.NoError(t, ok.Set(second, secondV))
	require.NoError(t, ok.Write())
	s.AssertGetHas(t, tx, second, secondV, true)
	s.AssertGetHas(t, base, second, nil, false)

	require.NoError(t, tx.Write())
	s.AssertGetHas(t, base, first, firstV, true)
	s.AssertGetHas(t, base, second, secondV, true)

	// A discarded transaction never reaches the base.
	tx2 := base.CacheWrap()
	require.NoError(t, tx2.Delete(conf))
	tx2.Discard()
	s.AssertGetHas(t, base, conf, confV, true)
}

// CacheConflicts checks that a cache overwrites and deletes values of
// its parent without touching the parent until written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	a, b, c := seqKey("drop:", 1), seqKey("drop:", 2), seqKey("drop:", 3)
	v := func(s string) []byte { return []byte(s) }

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is what we query, Value is what we expect. A nil Value
		// means the key must be missing.
		parentQueries []Model
		childQueries  []Model
	}{
		"claim one drop, cancel another, create a third": {
			parentOps:     []Op{SetOp(a, v("open")), SetOp(b, v("open"))},
			childOps:      []Op{SetOp(a, v("claimed")), DelOp(b), SetOp(c, v("open"))},
			parentQueries: []Model{Pair(a, v("open")), Pair(b, v("open")), Pair(c, nil)},
			childQueries:  []Model{Pair(a, v("claimed")), Pair(b, nil), Pair(c, v("open"))},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(a, v("one"))},
			childOps:      []Op{DelOp(a), SetOp(a, v("two"))},
			parentQueries: []Model{Pair(a, v("one"))},
			childQueries:  []Model{Pair(a, v("two"))},
		},
		"delete a missing key": {
			childOps:     []Op{DelOp(a)},
			childQueries: []Model{Pair(a, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				require.NoError(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				require.NoError(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			require.NoError(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// PrefixRanges checks that iterating over one bucket prefix never
// returns keys of another bucket, even when one name is a prefix of the
// other.
func (s *TestSuite) PrefixRanges(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	drops := []Model{
		Pair(seqKey("drop:", 1), []byte("d1")),
		Pair(seqKey("drop:", 2), []byte("d2")),
		Pair(seqKey("drop:", 256), []byte("d256")),
	}
	stats := []Model{
		Pair([]byte("dropstat:alice"), []byte("s1")),
		Pair([]byte("dropstat:bob"), []byte("s2")),
	}
	for _, m := range append(drops, stats...) {
		require.NoError(t, base.Set(m.Key, m.Value))
	}
	require.NoError(t, base.Set([]byte("_c:drop"), []byte("conf")))

	// The cache holds one more drop that must be merged in order.
	cache := base.CacheWrap()
	extra := Pair(seqKey("drop:", 3), []byte("d3"))
	require.NoError(t, cache.Set(extra.Key, extra.Value))
	drops = sortModels(append(drops, extra))

	collect(t, cache, []byte("drop:"), []byte("drop;"), false, drops)
	collect(t, cache, []byte("drop:"), []byte("drop;"), true, reverse(drops))
	collect(t, cache, []byte("dropstat:"), []byte("dropstat;"), false, stats)

	// Upper bound is exclusive: everything before drop 3.
	collect(t, cache, []byte("drop:"), seqKey("drop:", 3), true, reverse(drops[:2]))
}

// RandomIteration iterates over random data spread between a parent and
// a cache, with random deletes, in both directions and with bounds.
func (s *TestSuite) RandomIteration(t *testing.T) {
	const size = 50

	rnd := rand.New(rand.NewSource(7))
	child := randModels(rnd, size)
	parent := randModels(rnd, size)
	gone := randModels(rnd, size/2)

	onlyChild := sortModels(child)
	both := sortModels(append(child, parent...))

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: append(makeSetOps(child...), makeDelOps(gone...)...),
			want:  onlyChild,
		},
		"parent only": {
			parent: makeSetOps(child...),
			want:   onlyChild,
		},
		"child and parent": {
			parent: append(makeSetOps(parent...), makeDelOps(gone...)...),
			child:  append(makeSetOps(child...), makeDelOps(gone...)...),
			want:   both,
		},
		"child deletes all of the parent": {
			parent: makeSetOps(parent...),
			child:  makeDelOps(parent...),
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parent {
				require.NoError(t, op.Apply(base))
			}
			cache := base.CacheWrap()
			for _, op := range tc.child {
				require.NoError(t, op.Apply(cache))
			}

			collect(t, cache, nil, nil, false, tc.want)
			collect(t, cache, nil, nil, true, reverse(tc.want))
			if n := len(tc.want); n > 20 {
				collect(t, cache, tc.want[5].Key, nil, false, tc.want[5:])
				collect(t, cache, nil, tc.want[n-4].Key, false, tc.want[:n-4])
				collect(t, cache, tc.want[3].Key, tc.want[17].Key, true, reverse(tc.want[3:17]))
			}
		})
	}
}

// AssertGetHas checks both Get and Has for key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got, "key %X", key)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists, "key %X", key)
}

// collect iterates over [start, end) and compares the result with want.
func collect(t testing.TB, kv ReadOnlyKVStore, start, end []byte, descending bool, want []Model) {
	t.Helper()

	var (
		it  Iterator
		err error
	)
	if descending {
		it, err = kv.ReverseIterator(start, end)
	} else {
		it, err = kv.Iterator(start, end)
	}
	require.NoError(t, err)
	defer it.Release()

	for i, m := range want {
		key, value, err := it.Next()
		require.NoError(t, err, "entry %d", i)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("entry %d: want key %X, got %X", i, m.Key, key)
		}
		require.Equal(t, m.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done after %d entries, got %+v", len(want), err)
	}
}

// seqKey returns the key of a sequence id stored under prefix.
func seqKey(prefix string, id uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], id)
	return key
}

// randModels returns count entries with unique random keys.
func randModels(rnd *rand.Rand, count int) []Model {
	models := make([]Model, count)
	for i := range models {
		key := make([]byte, 12)
		rnd.Read(key)
		models[i] = Pair(key, []byte(fmt.Sprintf("value-%d", rnd.Int63())))
	}
	return models
}

// reverse returns a copy of the slice with elements in reverse order
func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

// sortModels returns a copy of the models sorted by key
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
