package geodroptest

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/crypto"
)

// NewKey returns a fresh random signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a fresh random key.
func NewCondition() geodrop.Condition {
	return NewKey().PublicKey().Condition()
}

// NewAddress returns an address nobody holds the key for.
func NewAddress() geodrop.Address {
	return NewCondition().Address()
}

// KeyAddress returns the identity a signer speaks for.
func KeyAddress(k crypto.Signer) geodrop.Address {
	return k.PublicKey().Address()
}
