package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// ReadStore is a subset of geodrop.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of geodrop.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is implemented by every configuration record. It is a
// protobuf message that can validate its own state.
type Configuration interface {
	proto.Message
	Validate() error
}

// Key returns the database key of the configuration owned by given package.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Configuration) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := proto.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "marshal: key %q: %s", key, err)
	}
	return db.Set(key, raw)
}

// Load reads the configuration singleton of given package into dst.
// It returns ErrNotFound if no configuration was saved yet.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	dst.Reset()
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal: key %q: %s", key, err)
	}
	return nil
}

// ReadGenesis takes opts["conf"][pkg] and parses it into the given
// destination. It returns ErrNotFound if genesis holds no configuration
// for given package.
func ReadGenesis(opts geodrop.Options, pkg string, dst interface{}) error {
	var confOptions geodrop.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, dst); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return nil
}
