package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/geodrop/errors"
)

// collectBtree returns all cached items within [start, end) in
// ascending order. Either bound may be nil to leave it open.
func collectBtree(bt *btree.BTree, start, end []byte) []*entry {
	var res []*entry
	add := func(item btree.Item) bool {
		res = append(res, item.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(&entry{key: end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(&entry{key: start}, add)
	default:
		bt.AscendRange(&entry{key: start}, &entry{key: end}, add)
	}
	return res
}

// itemIter merges the cached items with the iterator of the
// backing store. Cached entries shadow the parent ones with the same
// key and deleted entries hide them.
type itemIter struct {
	items   []*entry
	idx     int
	reverse bool

	parent Iterator
	// one element lookahead of the parent iterator
	pkey, pvalue []byte
	phas, pdone  bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []*entry, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		hasOwn := i.idx < len(i.items)
		if !hasOwn && i.pdone {
			return nil, nil, errors.ErrIteratorDone
		}

		if !hasOwn || (!i.pdone && i.parentFirst()) {
			i.phas = false
			return i.pkey, i.pvalue, nil
		}

		item := i.items[i.idx]
		i.idx++
		// the same key in the parent is shadowed by the cache
		if i.phas && bytes.Equal(item.key, i.pkey) {
			i.phas = false
		}
		if !item.tombstone {
			return item.key, item.value, nil
		}
	}
}

// parentFirst returns true if the parent lookahead must be returned
// before the next cached item.
func (i *itemIter) parentFirst() bool {
	cmp := bytes.Compare(i.pkey, i.items[i.idx].key)
	if i.reverse {
		return cmp > 0
	}
	return cmp < 0
}

func (i *itemIter) peekParent() error {
	if i.pdone || i.phas {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pkey, i.pvalue, i.phas = key, value, true
	case errors.ErrIteratorDone.Is(err):
		i.pdone = true
	default:
		return err
	}
	return nil
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
