package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// ModelIterator loads models from a bucket range one at a time.
//
//   it, err := bucket.ReverseRange(db, nil, nil)
//   ...
//   defer it.Release()
//   for {
//     var d Drop
//     key, err := it.LoadNext(&d)
//     if errors.ErrIteratorDone.Is(err) {
//       break
//     }
//     ...
//   }
type ModelIterator struct {
	it        geodrop.Iterator
	prefixLen int
}

// LoadNext unmarshals the next model into dest and returns its key
// without the bucket prefix. ErrIteratorDone is returned once the
// range is exhausted.
func (m *ModelIterator) LoadNext(dest Model) ([]byte, error) {
	key, raw, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	dest.Reset()
	if err := proto.Unmarshal(raw, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %T: %s", dest, err)
	}
	return key[m.prefixLen:], nil
}

// Release releases the underlying store iterator.
func (m *ModelIterator) Release() {
	m.it.Release()
}
