package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the balance of one owner in one token.
type Wallet struct {
	Token  geodrop.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
	Owner  geodrop.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Amount *coin.Int128    `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (w *Wallet) Reset()         { *w = Wallet{} }
func (w *Wallet) String() string { return proto.CompactTextString(w) }
func (*Wallet) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet is consistent.
func (w *Wallet) Validate() error {
	if err := w.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := w.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if w.Amount == nil {
		return errors.Wrap(errors.ErrInvalidModel, "missing amount")
	}
	if w.Amount.Sign() < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "negative balance")
	}
	return nil
}

// Balance returns the amount held, zero for an empty wallet.
func (w *Wallet) Balance() coin.Int128 {
	if w.Amount == nil {
		return coin.Int128{}
	}
	return *w.Amount
}

// Bucket stores wallets keyed by token and owner.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns the wallets bucket.
func NewBucket() Bucket {
	return Bucket{orm.NewModelBucket(BucketName)}
}

// walletKey is the token address followed by the owner address. Both have
// a fixed length so the key is unambiguous.
func walletKey(token, owner geodrop.Address) []byte {
	key := make([]byte, 0, len(token)+len(owner))
	key = append(key, token...)
	return append(key, owner...)
}

// GetOrCreate loads the wallet or returns an empty one.
func (b Bucket) GetOrCreate(db geodrop.ReadOnlyKVStore, token, owner geodrop.Address) (*Wallet, error) {
	var w Wallet
	err := b.One(db, walletKey(token, owner), &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Token: token, Owner: owner, Amount: &coin.Int128{}}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under its token and owner.
func (b Bucket) Save(db geodrop.KVStore, w *Wallet) error {
	return b.Put(db, walletKey(w.Token, w.Owner), w)
}
