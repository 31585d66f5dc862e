/*
Package crypto holds the ed25519 keys used to authorize operations.

A public key is turned into a Condition owned by the sigs extension, and
the Address of that condition is the identity that the key speaks for.
*/
package crypto

import (
	"github.com/iov-one/geodrop"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig []byte) bool
	Condition() geodrop.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}
