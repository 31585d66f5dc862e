package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/crypto"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData holds the replay protection state of a single identity.
type UserData struct {
	Pubkey   []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64  `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (u *UserData) Reset()         { *u = UserData{} }
func (u *UserData) String() string { return proto.CompactTextString(u) }
func (*UserData) ProtoMessage()    {}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the state is consistent.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative sequence")
	}
	if u.Sequence > 0 && len(u.Pubkey) == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "sequence needs pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrUnauthorized, "invalid nonce: expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData keyed by the identity address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for the replay protection state.
func NewBucket() Bucket {
	return Bucket{orm.NewModelBucket(BucketName)}
}

// GetOrCreate loads the state of given identity, or returns a fresh
// state bound to the public key if none exists yet.
func (b Bucket) GetOrCreate(db geodrop.ReadOnlyKVStore, addr geodrop.Address, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	err := b.One(db, addr, &user)
	switch {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}
