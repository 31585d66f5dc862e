package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/crypto"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/x"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Authorizer verifies ed25519 credentials against the stored nonce of
// every identity.
type Authorizer struct {
	bucket Bucket
}

var _ x.Authorizer = Authorizer{}

// NewAuthorizer returns an authorizer using the default bucket.
func NewAuthorizer() Authorizer {
	return Authorizer{bucket: NewBucket()}
}

// Authorize checks the credential and on success consumes its nonce.
// Every rejection is reported as ErrUnauthorized.
func (a Authorizer) Authorize(ctx geodrop.Context, db geodrop.KVStore, identity geodrop.Address, cred *x.Credential, msg x.Signable) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	pubkey := crypto.PublicKey(cred.Pubkey)
	if !pubkey.Address().Equals(identity) {
		return errors.Wrap(errors.ErrUnauthorized, "credential does not belong to the identity")
	}

	user, err := a.bucket.GetOrCreate(db, identity, pubkey)
	if err != nil {
		return err
	}

	signBytes, err := msg.SignBytes()
	if err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	toSign, err := BuildSignBytes(msg.Path(), signBytes, geodrop.GetChainID(ctx), cred.Nonce)
	if err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if !pubkey.Verify(toSign, cred.Signature) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(cred.Nonce); err != nil {
		return err
	}
	return a.bucket.Put(db, identity, user)
}

// NextNonce returns the nonce the next credential of given identity
// must carry.
func (a Authorizer) NextNonce(db geodrop.ReadOnlyKVStore, identity geodrop.Address) (int64, error) {
	user, err := a.bucket.GetOrCreate(db, identity, nil)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

// Sign builds a credential for msg with given signer and nonce.
func Sign(signer crypto.Signer, chainID string, msg x.Signable, nonce int64) (*x.Credential, error) {
	signBytes, err := msg.SignBytes()
	if err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(msg.Path(), signBytes, chainID, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(toSign)
	if err != nil {
		return nil, err
	}
	return &x.Credential{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Nonce:     nonce,
	}, nil
}

/*
BuildSignBytes combines all info on the actual operation before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | len(path) | path         | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | uint8     | ascii string | serialized arguments

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(path string, signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "negative nonce")
	}
	if !geodrop.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	if len(path) == 0 || len(path) > 255 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "path: %q", path)
	}

	// encode nonce as 8 byte, big-endian
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+1+len(path)+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, uint8(len(path)))
	output = append(output, []byte(path)...)
	output = append(output, signBytes...)

	// now, we take the sha512 hash of the result,
	// so we have a constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}
