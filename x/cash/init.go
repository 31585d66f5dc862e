package cash

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Addresses use the bech32 form.
type GenesisAccount struct {
	Address geodrop.Address `json:"address"`
	Token   geodrop.Address `json:"token"`
	Amount  coin.Int128     `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ geodrop.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts geodrop.Options, kv geodrop.KVStore) error {
	next, err := opts.Stream(optKey)
	switch {
	case errors.ErrEmpty.Is(err):
		return nil
	case err != nil:
		return err
	}

	ctrl := NewController()
	for {
		var acct GenesisAccount
		switch err := next(&acct); {
		case errors.ErrEmpty.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load account")
		}
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "address")
		}
		if err := ctrl.CoinMint(kv, acct.Token, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "fund %s", acct.Address)
		}
	}
}
