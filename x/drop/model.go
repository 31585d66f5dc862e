package drop

import (
	"unicode/utf8"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/orm"
)

const (
	// BucketName is where we store the drops
	BucketName = "drop"
	// StatsBucketName is where we store per identity totals
	StatsBucketName = "dropstat"
	// ConfigPkg is the gconf name of the engine configuration
	ConfigPkg = "drop"
)

// CustodyAddress holds the funds of all unclaimed drops. Nobody owns a
// key for it, only the engine moves funds out of it.
var CustodyAddress = geodrop.NewCondition("drop", "custody", []byte("escrow")).Address()

// Drop is a deposit waiting to be claimed or cancelled.
type Drop struct {
	ID      uint64          `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	Creator geodrop.Address `protobuf:"bytes,2,opt,name=creator,proto3" json:"creator"`
	Amount  *coin.Int128    `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Message string          `protobuf:"bytes,4,opt,name=message,proto3" json:"message"`
	Claimed bool            `protobuf:"varint,5,opt,name=claimed,proto3" json:"claimed"`
	// Claimer is empty until the drop is claimed.
	Claimer geodrop.Address `protobuf:"bytes,6,opt,name=claimer,proto3" json:"claimer,omitempty"`

	// Block heights of creation and claim, zero outside of a block.
	CreatedHeight int64 `protobuf:"varint,7,opt,name=created_height,json=createdHeight,proto3" json:"created_height"`
	ClaimedHeight int64 `protobuf:"varint,8,opt,name=claimed_height,json=claimedHeight,proto3" json:"claimed_height,omitempty"`
}

func (d *Drop) Reset()         { *d = Drop{} }
func (d *Drop) String() string { return proto.CompactTextString(d) }
func (*Drop) ProtoMessage()    {}

var _ orm.Model = (*Drop)(nil)

// Validate ensures the drop is consistent. It is called on every write.
func (d *Drop) Validate() error {
	if d.ID == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "missing id")
	}
	if err := d.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if d.Amount == nil || !d.Amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	if !utf8.ValidString(d.Message) {
		return errors.Wrap(errors.ErrInvalidInput, "message is not valid utf-8")
	}
	if d.Claimed != (len(d.Claimer) > 0) {
		return errors.Wrap(errors.ErrInvalidState, "claimer must be set iff claimed")
	}
	if d.CreatedHeight < 0 || d.ClaimedHeight < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative height")
	}
	if !d.Claimed && d.ClaimedHeight != 0 {
		return errors.Wrap(errors.ErrInvalidState, "claim height of an unclaimed drop")
	}
	if d.Claimed {
		if err := d.Claimer.Validate(); err != nil {
			return errors.Wrap(err, "claimer")
		}
	}
	return nil
}

// Copy returns a deep copy, so a drop can be modified without touching
// the loaded value.
func (d *Drop) Copy() *Drop {
	cpy := *d
	if d.Amount != nil {
		amount := *d.Amount
		cpy.Amount = &amount
	}
	return &cpy
}

// Config is the singleton instance configuration.
type Config struct {
	// Token is the ledger token all drops are denominated in.
	Token geodrop.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token"`
	// DropCount is the id of the last created drop. It never decreases.
	DropCount uint64 `protobuf:"varint,2,opt,name=drop_count,json=dropCount,proto3" json:"drop_count"`
}

func (c *Config) Reset()         { *c = Config{} }
func (c *Config) String() string { return proto.CompactTextString(c) }
func (*Config) ProtoMessage()    {}

// Validate requires a token.
func (c *Config) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	return nil
}

// Stats are the running totals of one identity.
type Stats struct {
	Owner           geodrop.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	DropsCreated    uint64          `protobuf:"varint,2,opt,name=drops_created,json=dropsCreated,proto3" json:"drops_created"`
	DropsClaimed    uint64          `protobuf:"varint,3,opt,name=drops_claimed,json=dropsClaimed,proto3" json:"drops_claimed"`
	DropsCancelled  uint64          `protobuf:"varint,4,opt,name=drops_cancelled,json=dropsCancelled,proto3" json:"drops_cancelled"`
	AmountSent      *coin.Int128    `protobuf:"bytes,5,opt,name=amount_sent,json=amountSent,proto3" json:"amount_sent"`
	AmountReceived  *coin.Int128    `protobuf:"bytes,6,opt,name=amount_received,json=amountReceived,proto3" json:"amount_received"`
	AmountReclaimed *coin.Int128    `protobuf:"bytes,7,opt,name=amount_reclaimed,json=amountReclaimed,proto3" json:"amount_reclaimed"`
}

func (s *Stats) Reset()         { *s = Stats{} }
func (s *Stats) String() string { return proto.CompactTextString(s) }
func (*Stats) ProtoMessage()    {}

var _ orm.Model = (*Stats)(nil)

// Validate ensures the totals are well formed.
func (s *Stats) Validate() error {
	if err := s.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	for name, v := range map[string]*coin.Int128{
		"amount sent":      s.AmountSent,
		"amount received":  s.AmountReceived,
		"amount reclaimed": s.AmountReclaimed,
	} {
		if v == nil {
			return errors.Wrapf(errors.ErrInvalidModel, "missing %s", name)
		}
		if v.Sign() < 0 {
			return errors.Wrapf(errors.ErrInvalidAmount, "negative %s", name)
		}
	}
	return nil
}

func newStats(owner geodrop.Address) *Stats {
	return &Stats{
		Owner:           owner,
		AmountSent:      &coin.Int128{},
		AmountReceived:  &coin.Int128{},
		AmountReclaimed: &coin.Int128{},
	}
}

// DropBucket stores drops under their sequence encoded id.
type DropBucket struct {
	orm.ModelBucket
}

// NewDropBucket returns the drops bucket.
func NewDropBucket() DropBucket {
	return DropBucket{orm.NewModelBucket(BucketName)}
}

// GetDrop loads a drop. It returns ErrNotFound for an unknown or
// cancelled id.
func (b DropBucket) GetDrop(db geodrop.ReadOnlyKVStore, id uint64) (*Drop, error) {
	var d Drop
	if err := b.One(db, orm.EncodeSequence(id), &d); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "drop %d", id)
		}
		return nil, err
	}
	return &d, nil
}

// Save stores the drop under its id.
func (b DropBucket) Save(db geodrop.KVStore, d *Drop) error {
	return b.Put(db, orm.EncodeSequence(d.ID), d)
}

// Remove deletes the drop with given id.
func (b DropBucket) Remove(db geodrop.KVStore, id uint64) error {
	return b.Delete(db, orm.EncodeSequence(id))
}

// StatsBucket stores Stats under the owner address.
type StatsBucket struct {
	orm.ModelBucket
}

// NewStatsBucket returns the stats bucket.
func NewStatsBucket() StatsBucket {
	return StatsBucket{orm.NewModelBucket(StatsBucketName)}
}

// GetOrCreate loads the totals of owner, or zero totals if there are none.
func (b StatsBucket) GetOrCreate(db geodrop.ReadOnlyKVStore, owner geodrop.Address) (*Stats, error) {
	var s Stats
	err := b.One(db, owner, &s)
	switch {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return newStats(owner), nil
	default:
		return nil, err
	}
}

// Update applies fn to the totals of owner and stores the result.
func (b StatsBucket) Update(db geodrop.KVStore, owner geodrop.Address, fn func(*Stats) error) error {
	s, err := b.GetOrCreate(db, owner)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return b.Put(db, owner, s)
}

// addTo adds amount to the counter pointed to by dst.
func addTo(dst **coin.Int128, amount coin.Int128) error {
	var cur coin.Int128
	if *dst != nil {
		cur = **dst
	}
	sum, err := cur.Add(amount)
	if err != nil {
		return err
	}
	*dst = &sum
	return nil
}
