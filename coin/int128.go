package coin

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/iov-one/geodrop/errors"
)

var (
	two64   = new(big.Int).Lsh(big.NewInt(1), 64)
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64  = new(big.Int).Sub(two64, big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Int128 is a signed 128 bit integer in two's complement form.
// The value is Hi * 2^64 + Lo.
type Int128 struct {
	Hi int64  `protobuf:"varint,1,opt,name=hi,proto3" json:"hi,omitempty"`
	Lo uint64 `protobuf:"varint,2,opt,name=lo,proto3" json:"lo,omitempty"`
}

// NewInt128 returns the value of given int64.
func NewInt128(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// NewInt128p returns a pointer to the value of given int64.
func NewInt128p(v int64) *Int128 {
	i := NewInt128(v)
	return &i
}

// FromBig converts an arbitrary precision integer. ErrOverflow is returned
// if the value does not fit into 128 bits.
func FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(maxI128) > 0 || b.Cmp(minI128) < 0 {
		return Int128{}, errors.Wrapf(errors.ErrOverflow, "%s does not fit into 128 bits", b)
	}
	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Int128{Hi: int64(hi), Lo: lo}, nil
}

// ParseInt128 reads a base 10 representation of the value.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Int128{}, errors.Wrapf(errors.ErrInvalidInput, "invalid integer %q", s)
	}
	return FromBig(b)
}

// Big returns the arbitrary precision representation of the value.
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// Sign returns -1, 0 or 1 depending on the sign of the value.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	default:
		return 1
	}
}

// IsPositive returns true for values strictly greater than zero.
func (i Int128) IsPositive() bool {
	return i.Sign() > 0
}

// IsZero returns true if the value is zero.
func (i Int128) IsZero() bool {
	return i.Sign() == 0
}

// Cmp returns -1, 0 or 1 if i is less than, equal to or greater than o.
func (i Int128) Cmp(o Int128) int {
	switch {
	case i.Hi < o.Hi:
		return -1
	case i.Hi > o.Hi:
		return 1
	case i.Lo < o.Lo:
		return -1
	case i.Lo > o.Lo:
		return 1
	default:
		return 0
	}
}

// Equals returns true if both values are the same.
func (i Int128) Equals(o Int128) bool {
	return i.Hi == o.Hi && i.Lo == o.Lo
}

// Add returns i + o or ErrOverflow.
func (i Int128) Add(o Int128) (Int128, error) {
	return FromBig(new(big.Int).Add(i.Big(), o.Big()))
}

// Sub returns i - o or ErrOverflow.
func (i Int128) Sub(o Int128) (Int128, error) {
	return FromBig(new(big.Int).Sub(i.Big(), o.Big()))
}

// Negative returns -i or ErrOverflow for the smallest value.
func (i Int128) Negative() (Int128, error) {
	return FromBig(new(big.Int).Neg(i.Big()))
}

// String returns the base 10 representation.
func (i Int128) String() string {
	if i.Hi == 0 {
		return strconv.FormatUint(i.Lo, 10)
	}
	return i.Big().String()
}

// Reset implements proto.Message
func (i *Int128) Reset() { *i = Int128{} }

// ProtoMessage implements proto.Message
func (*Int128) ProtoMessage() {}

// MarshalJSON uses the base 10 string form, as JSON numbers cannot hold
// the full range.
func (i Int128) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON accepts both a base 10 string and a JSON number.
func (i *Int128) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "amount must be a string or a number")
		}
		s = n.String()
	}
	v, err := ParseInt128(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}
