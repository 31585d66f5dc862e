/*
Package x contains the interfaces shared between the extensions. Each
extension lives in its own subpackage.
*/
package x

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// Credential is the proof supplied together with an identity argument.
// It travels inside the message it authorizes.
type Credential struct {
	// Pubkey is the raw ed25519 public key of the signer
	Pubkey []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	// Signature over the sign bytes of the message
	Signature []byte `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
	// Nonce must match the next expected nonce of the identity
	Nonce int64 `protobuf:"varint,3,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (c *Credential) Reset()         { *c = Credential{} }
func (c *Credential) String() string { return proto.CompactTextString(c) }
func (*Credential) ProtoMessage()    {}

// Validate performs stateless checks only.
func (c *Credential) Validate() error {
	if c == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing credential")
	}
	if len(c.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(c.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if c.Nonce < 0 {
		return errors.Wrap(errors.ErrUnauthorized, "negative nonce")
	}
	return nil
}

// Signable is implemented by every message that carries a credential.
type Signable interface {
	// Path identifies the operation.
	Path() string
	// SignBytes serializes the operation arguments, without the
	// credential itself.
	SignBytes() ([]byte, error)
}

// Authorizer decides whether a credential proves that the identity
// approved the operation described by msg with exactly these arguments.
// It returns ErrUnauthorized on rejection. On success it may record
// state (for example to prevent replays).
//
// This should be passed into the constructor of controllers, so we can
// plug in another authorization system rather than hard-coding x/sigs.
type Authorizer interface {
	Authorize(ctx geodrop.Context, db geodrop.KVStore, identity geodrop.Address, cred *Credential, msg Signable) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx geodrop.Context, db geodrop.KVStore, identity geodrop.Address, cred *Credential, msg Signable) error

// Authorize calls fn.
func (fn AuthorizerFunc) Authorize(ctx geodrop.Context, db geodrop.KVStore, identity geodrop.Address, cred *Credential, msg Signable) error {
	return fn(ctx, db, identity, cred, msg)
}
