package cash

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
)

// Controller is the ledger interface other extensions depend on.
type Controller interface {
	// Balance returns the amount of token held by owner.
	Balance(db geodrop.ReadOnlyKVStore, token, owner geodrop.Address) (coin.Int128, error)

	// MoveCoins moves the given amount from src to dest.
	// If src doesn't have sufficient coins, it fails without
	// modifying any state.
	MoveCoins(db geodrop.KVStore, token, src, dest geodrop.Address, amount coin.Int128) error

	// CoinMint adds the given amount to dest. It is used to fund
	// wallets from genesis and must not be reachable from messages.
	CoinMint(db geodrop.KVStore, token, dest geodrop.Address, amount coin.Int128) error
}

// BaseController is a simple implementation of the Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount of token held by owner.
func (c BaseController) Balance(db geodrop.ReadOnlyKVStore, token, owner geodrop.Address) (coin.Int128, error) {
	w, err := c.bucket.GetOrCreate(db, token, owner)
	if err != nil {
		return coin.Int128{}, err
	}
	return w.Balance(), nil
}

// MoveCoins moves the given amount from src to dest.
func (c BaseController) MoveCoins(db geodrop.KVStore, token, src, dest geodrop.Address, amount coin.Int128) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive transfer")
	}

	sender, err := c.bucket.GetOrCreate(db, token, src)
	if err != nil {
		return err
	}
	if sender.Balance().Cmp(amount) < 0 {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s, needs %s", src, sender.Balance(), amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, token, dest)
	if err != nil {
		return err
	}
	remaining, err := sender.Balance().Sub(amount)
	if err != nil {
		return err
	}
	received, err := recipient.Balance().Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}

	// Both new balances are computed before anything is written.
	sender.Amount = &remaining
	recipient.Amount = &received
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// CoinMint adds the given amount to dest.
func (c BaseController) CoinMint(db geodrop.KVStore, token, dest geodrop.Address, amount coin.Int128) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive mint")
	}
	w, err := c.bucket.GetOrCreate(db, token, dest)
	if err != nil {
		return err
	}
	total, err := w.Balance().Add(amount)
	if err != nil {
		return err
	}
	w.Amount = &total
	return c.bucket.Save(db, w)
}
