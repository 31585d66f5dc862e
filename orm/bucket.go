package orm

import (
	"fmt"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// ModelBucket is a prefixed subspace of the DB holding models of a
// single type. All keys are stored as <name>:<key>.
type ModelBucket struct {
	name   string
	prefix []byte
}

// NewModelBucket creates a bucket to store data.
// It panics if the name is not a valid bucket name.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	res := make([]byte, l+len(key))
	copy(res, b.prefix)
	copy(res[l:], key)
	return res
}

// One query the database for a single model instance. Lookup is done by
// the primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b ModelBucket) One(db geodrop.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	dest.Reset()
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Has returns true if an entity with given key exists.
func (b ModelBucket) Has(db geodrop.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put saves given model in the database. The model is validated first.
func (b ModelBucket) Put(db geodrop.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db geodrop.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return db.Delete(b.DBKey(key))
}

// Range iterates in ascending key order over all models with
// start <= key < end. A nil bound means the bucket boundary.
func (b ModelBucket) Range(db geodrop.ReadOnlyKVStore, start, end []byte) (*ModelIterator, error) {
	s, e := b.bounds(start, end)
	it, err := db.Iterator(s, e)
	if err != nil {
		return nil, err
	}
	return &ModelIterator{it: it, prefixLen: len(b.prefix)}, nil
}

// ReverseRange iterates in descending key order over all models with
// start <= key < end. A nil bound means the bucket boundary.
func (b ModelBucket) ReverseRange(db geodrop.ReadOnlyKVStore, start, end []byte) (*ModelIterator, error) {
	s, e := b.bounds(start, end)
	it, err := db.ReverseIterator(s, e)
	if err != nil {
		return nil, err
	}
	return &ModelIterator{it: it, prefixLen: len(b.prefix)}, nil
}

func (b ModelBucket) bounds(start, end []byte) ([]byte, []byte) {
	s := b.DBKey(start)
	var e []byte
	if end == nil {
		e = prefixEnd(b.prefix)
	} else {
		e = b.DBKey(end)
	}
	return s, e
}

// prefixEnd returns the smallest key greater than all keys starting
// with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
