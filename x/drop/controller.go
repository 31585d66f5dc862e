package drop

import (
	"sort"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/gconf"
	"github.com/iov-one/geodrop/orm"
	"github.com/iov-one/geodrop/x"
	"github.com/iov-one/geodrop/x/cash"
)

const (
	// DefaultListLimit is used when a ListFilter sets no limit.
	DefaultListLimit = 100
	// MaxListLimit caps the number of drops returned by one ListDrops call.
	MaxListLimit = 1000
)

// Controller is the escrow engine. It holds no state of its own, every
// call loads what it needs from the given store.
type Controller struct {
	auth  x.Authorizer
	bank  cash.Controller
	drops DropBucket
	stats StatsBucket
}

// NewController returns an engine that authorizes identities with auth
// and moves funds with bank.
func NewController(auth x.Authorizer, bank cash.Controller) Controller {
	return Controller{
		auth:  auth,
		bank:  bank,
		drops: NewDropBucket(),
		stats: NewStatsBucket(),
	}
}

// Initialize sets the token of this instance. It fails with
// ErrAlreadyInitialized if a token is already configured.
//
// There is no authorization check. Whoever runs it first after deployment
// decides the token, so deployments should call it from genesis.
func (c Controller) Initialize(db geodrop.KVStore, token geodrop.Address) error {
	var conf Config
	switch err := gconf.Load(db, ConfigPkg, &conf); {
	case err == nil:
		if len(conf.Token) > 0 {
			return errors.Wrapf(ErrAlreadyInitialized, "token %s", conf.Token)
		}
	case errors.ErrNotFound.Is(err):
	default:
		return err
	}
	if err := token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	return gconf.Save(db, ConfigPkg, &Config{Token: token})
}

// GetConfig returns the instance configuration or ErrNotInitialized.
func (c Controller) GetConfig(db geodrop.ReadOnlyKVStore) (*Config, error) {
	var conf Config
	if err := gconf.Load(db, ConfigPkg, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	if len(conf.Token) == 0 {
		return nil, ErrNotInitialized
	}
	return &conf, nil
}

// CreateDrop moves msg.Amount from the creator into custody and stores a
// new drop. It returns the id of that drop.
func (c Controller) CreateDrop(ctx geodrop.Context, db geodrop.KVStore, msg *CreateDropMsg) (uint64, error) {
	if err := c.auth.Authorize(ctx, db, msg.Creator, msg.Credential, msg); err != nil {
		return 0, err
	}
	if msg.Amount == nil || !msg.Amount.IsPositive() {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "amount %v", msg.Amount)
	}
	conf, err := c.GetConfig(db)
	if err != nil {
		return 0, err
	}
	if conf.DropCount == maxDropCount {
		return 0, errors.Wrap(errors.ErrOverflow, "drop count")
	}
	amount := *msg.Amount
	id := conf.DropCount + 1
	height, _ := geodrop.GetHeight(ctx)
	d := &Drop{
		ID:            id,
		Creator:       msg.Creator,
		Amount:        &amount,
		Message:       msg.Message,
		CreatedHeight: height,
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	if err := c.bank.MoveCoins(db, conf.Token, msg.Creator, CustodyAddress, amount); err != nil {
		return 0, transferFailed(err, "deposit")
	}
	if err := c.drops.Save(db, d); err != nil {
		return 0, errors.Wrap(err, "cannot store drop")
	}
	conf.DropCount = id
	if err := gconf.Save(db, ConfigPkg, conf); err != nil {
		return 0, err
	}
	err = c.stats.Update(db, msg.Creator, func(s *Stats) error {
		s.DropsCreated++
		return addTo(&s.AmountSent, amount)
	})
	if err != nil {
		return 0, errors.Wrap(err, "creator stats")
	}
	return id, nil
}

// ClaimDrop moves the funds of an unclaimed drop to the claimer and marks
// the drop claimed. The drop is kept.
func (c Controller) ClaimDrop(ctx geodrop.Context, db geodrop.KVStore, msg *ClaimDropMsg) (*Drop, error) {
	if err := c.auth.Authorize(ctx, db, msg.Claimer, msg.Credential, msg); err != nil {
		return nil, err
	}
	stored, err := c.drops.GetDrop(db, msg.DropID)
	if err != nil {
		return nil, err
	}
	if stored.Claimed {
		return nil, errors.Wrapf(ErrAlreadyClaimed, "drop %d claimed by %s", stored.ID, stored.Claimer)
	}
	conf, err := c.GetConfig(db)
	if err != nil {
		return nil, err
	}

	claimed := stored.Copy()
	claimed.Claimed = true
	claimed.Claimer = msg.Claimer
	claimed.ClaimedHeight, _ = geodrop.GetHeight(ctx)

	if err := c.bank.MoveCoins(db, conf.Token, CustodyAddress, msg.Claimer, *claimed.Amount); err != nil {
		return nil, transferFailed(err, "payout")
	}
	if err := c.drops.Save(db, claimed); err != nil {
		return nil, errors.Wrap(err, "cannot store drop")
	}
	err = c.stats.Update(db, msg.Claimer, func(s *Stats) error {
		s.DropsClaimed++
		return addTo(&s.AmountReceived, *claimed.Amount)
	})
	if err != nil {
		return nil, errors.Wrap(err, "claimer stats")
	}
	return claimed, nil
}

// CancelDrop returns the funds of an unclaimed drop to its creator and
// removes the drop.
func (c Controller) CancelDrop(ctx geodrop.Context, db geodrop.KVStore, msg *CancelDropMsg) (*Drop, error) {
	if err := c.auth.Authorize(ctx, db, msg.Creator, msg.Credential, msg); err != nil {
		return nil, err
	}
	d, err := c.drops.GetDrop(db, msg.DropID)
	if err != nil {
		return nil, err
	}
	if !d.Creator.Equals(msg.Creator) {
		return nil, errors.Wrapf(ErrNotCreator, "drop %d", d.ID)
	}
	if d.Claimed {
		return nil, errors.Wrapf(ErrAlreadyClaimed, "drop %d claimed by %s", d.ID, d.Claimer)
	}
	conf, err := c.GetConfig(db)
	if err != nil {
		return nil, err
	}

	if err := c.bank.MoveCoins(db, conf.Token, CustodyAddress, d.Creator, *d.Amount); err != nil {
		return nil, transferFailed(err, "refund")
	}
	if err := c.drops.Remove(db, d.ID); err != nil {
		return nil, errors.Wrap(err, "cannot remove drop")
	}
	err = c.stats.Update(db, d.Creator, func(s *Stats) error {
		s.DropsCancelled++
		return addTo(&s.AmountReclaimed, *d.Amount)
	})
	if err != nil {
		return nil, errors.Wrap(err, "creator stats")
	}
	return d, nil
}

// GetDrop returns the drop with given id. Cancelled and unknown ids are
// reported as ErrNotFound.
func (c Controller) GetDrop(db geodrop.ReadOnlyKVStore, id uint64) (*Drop, error) {
	return c.drops.GetDrop(db, id)
}

// GetDropCount returns the number of drops ever created, zero before
// initialization.
func (c Controller) GetDropCount(db geodrop.ReadOnlyKVStore) (uint64, error) {
	conf, err := c.GetConfig(db)
	switch {
	case err == nil:
		return conf.DropCount, nil
	case ErrNotInitialized.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// ListFilter selects drops for ListDrops. The zero value lists the
// newest DefaultListLimit drops.
type ListFilter struct {
	// Creator limits the result to drops of one identity.
	Creator geodrop.Address
	// UnclaimedOnly skips claimed drops.
	UnclaimedOnly bool
	// BeforeID returns only drops with a lower id. Zero means no bound.
	BeforeID uint64
	// Limit is the maximum number of drops returned.
	Limit int
}

// ListDrops returns drops matching the filter, newest first.
func (c Controller) ListDrops(db geodrop.ReadOnlyKVStore, f ListFilter) ([]*Drop, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	var end []byte
	if f.BeforeID > 0 {
		end = orm.EncodeSequence(f.BeforeID)
	}

	it, err := c.drops.ReverseRange(db, nil, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Drop
	for len(res) < limit {
		var d Drop
		switch _, err := it.LoadNext(&d); {
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, err
		}
		if f.UnclaimedOnly && d.Claimed {
			continue
		}
		if len(f.Creator) > 0 && !f.Creator.Equals(d.Creator) {
			continue
		}
		res = append(res, &d)
	}
	return res, nil
}

// GetStats returns the totals of an identity. An identity that never
// used the engine has zero totals.
func (c Controller) GetStats(db geodrop.ReadOnlyKVStore, owner geodrop.Address) (*Stats, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return c.stats.GetOrCreate(db, owner)
}

// Leaderboard returns up to limit identities with the most created drops.
// Ties are broken by amount sent, then by address.
func (c Controller) Leaderboard(db geodrop.ReadOnlyKVStore, limit int) ([]*Stats, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	it, err := c.stats.Range(db, nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var all []*Stats
	for {
		var s Stats
		_, err := it.LoadNext(&s)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		if s.DropsCreated == 0 {
			continue
		}
		all = append(all, &s)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.DropsCreated != b.DropsCreated {
			return a.DropsCreated > b.DropsCreated
		}
		if cmp := a.AmountSent.Cmp(*b.AmountSent); cmp != 0 {
			return cmp > 0
		}
		return a.Owner.String() < b.Owner.String()
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// maxDropCount keeps ids representable as int64 for clients.
const maxDropCount = 1<<63 - 1

// transferFailed reports a ledger error as ErrTransferFailed. The ledger
// error stays reachable as the cause.
func transferFailed(err error, what string) error {
	return errors.Tag(ErrTransferFailed, err, what)
}

// CustodyBalance returns the amount held for all unclaimed drops.
func (c Controller) CustodyBalance(db geodrop.ReadOnlyKVStore) (coin.Int128, error) {
	conf, err := c.GetConfig(db)
	if err != nil {
		return coin.Int128{}, err
	}
	return c.bank.Balance(db, conf.Token, CustodyAddress)
}
