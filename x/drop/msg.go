package drop

import (
	"unicode/utf8"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/x"
)

const (
	pathInitMsg   = "drop/init"
	pathCreateMsg = "drop/create"
	pathClaimMsg  = "drop/claim"
	pathCancelMsg = "drop/cancel"
)

var _ geodrop.Msg = (*InitMsg)(nil)

// InitMsg sets the token of the instance. It can succeed only once.
type InitMsg struct {
	Token geodrop.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token"`
}

func (m *InitMsg) Reset()         { *m = InitMsg{} }
func (m *InitMsg) String() string { return proto.CompactTextString(m) }
func (*InitMsg) ProtoMessage()    {}

// Path returns the routing path for this message
func (InitMsg) Path() string {
	return pathInitMsg
}

// Validate ensures the token is a valid address
func (m *InitMsg) Validate() error {
	if err := m.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	return nil
}

var (
	_ geodrop.Msg = (*CreateDropMsg)(nil)
	_ x.Signable  = (*CreateDropMsg)(nil)
)

// CreateDropMsg deposits Amount from Creator into a new drop.
type CreateDropMsg struct {
	Creator    geodrop.Address `protobuf:"bytes,1,opt,name=creator,proto3" json:"creator"`
	Amount     *coin.Int128    `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount"`
	Message    string          `protobuf:"bytes,3,opt,name=message,proto3" json:"message"`
	Credential *x.Credential   `protobuf:"bytes,4,opt,name=credential,proto3" json:"credential,omitempty"`
}

func (m *CreateDropMsg) Reset()         { *m = CreateDropMsg{} }
func (m *CreateDropMsg) String() string { return proto.CompactTextString(m) }
func (*CreateDropMsg) ProtoMessage()    {}

// Path returns the routing path for this message
func (CreateDropMsg) Path() string {
	return pathCreateMsg
}

// Validate runs the stateless checks a client can do before submitting.
// The engine does not rely on it and runs its own checks in a fixed order.
func (m *CreateDropMsg) Validate() error {
	if err := m.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	if !utf8.ValidString(m.Message) {
		return errors.Wrap(errors.ErrInvalidInput, "message is not valid utf-8")
	}
	return m.Credential.Validate()
}

// SignBytes serializes the message without its credential.
func (m *CreateDropMsg) SignBytes() ([]byte, error) {
	cpy := *m
	cpy.Credential = nil
	return proto.Marshal(&cpy)
}

var (
	_ geodrop.Msg = (*ClaimDropMsg)(nil)
	_ x.Signable  = (*ClaimDropMsg)(nil)
)

// ClaimDropMsg moves the funds of a drop to Claimer.
type ClaimDropMsg struct {
	DropID     uint64          `protobuf:"varint,1,opt,name=drop_id,json=dropId,proto3" json:"drop_id"`
	Claimer    geodrop.Address `protobuf:"bytes,2,opt,name=claimer,proto3" json:"claimer"`
	Credential *x.Credential   `protobuf:"bytes,3,opt,name=credential,proto3" json:"credential,omitempty"`
}

func (m *ClaimDropMsg) Reset()         { *m = ClaimDropMsg{} }
func (m *ClaimDropMsg) String() string { return proto.CompactTextString(m) }
func (*ClaimDropMsg) ProtoMessage()    {}

// Path returns the routing path for this message
func (ClaimDropMsg) Path() string {
	return pathClaimMsg
}

// Validate runs the stateless checks a client can do before submitting.
func (m *ClaimDropMsg) Validate() error {
	if m.DropID == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "missing drop id")
	}
	if err := m.Claimer.Validate(); err != nil {
		return errors.Wrap(err, "claimer")
	}
	return m.Credential.Validate()
}

// SignBytes serializes the message without its credential.
func (m *ClaimDropMsg) SignBytes() ([]byte, error) {
	cpy := *m
	cpy.Credential = nil
	return proto.Marshal(&cpy)
}

var (
	_ geodrop.Msg = (*CancelDropMsg)(nil)
	_ x.Signable  = (*CancelDropMsg)(nil)
)

// CancelDropMsg returns the funds of an unclaimed drop to its creator.
type CancelDropMsg struct {
	DropID     uint64          `protobuf:"varint,1,opt,name=drop_id,json=dropId,proto3" json:"drop_id"`
	Creator    geodrop.Address `protobuf:"bytes,2,opt,name=creator,proto3" json:"creator"`
	Credential *x.Credential   `protobuf:"bytes,3,opt,name=credential,proto3" json:"credential,omitempty"`
}

func (m *CancelDropMsg) Reset()         { *m = CancelDropMsg{} }
func (m *CancelDropMsg) String() string { return proto.CompactTextString(m) }
func (*CancelDropMsg) ProtoMessage()    {}

// Path returns the routing path for this message
func (CancelDropMsg) Path() string {
	return pathCancelMsg
}

// Validate runs the stateless checks a client can do before submitting.
func (m *CancelDropMsg) Validate() error {
	if m.DropID == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "missing drop id")
	}
	if err := m.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	return m.Credential.Validate()
}

// SignBytes serializes the message without its credential.
func (m *CancelDropMsg) SignBytes() ([]byte, error) {
	cpy := *m
	cpy.Credential = nil
	return proto.Marshal(&cpy)
}
