package drop

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/gconf"
)

// GenesisConfig is the genesis form of the configuration, read from
// conf.drop. It is a separate type because the drop count cannot be set
// from genesis.
type GenesisConfig struct {
	Token geodrop.Address `json:"token"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct {
	Ctrl Controller
}

var _ geodrop.Initializer = Initializer{}

// FromGenesis initializes the engine with the token from genesis. It is
// a no-op if genesis holds no drop configuration, in which case a later
// InitMsg has to do it.
func (i Initializer) FromGenesis(opts geodrop.Options, db geodrop.KVStore) error {
	var conf GenesisConfig
	switch err := gconf.ReadGenesis(opts, ConfigPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	return i.Ctrl.Initialize(db, conf.Token)
}
