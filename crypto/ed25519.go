package crypto

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// StellarPath is the hierarchical derivation path of the first account
// as used by Stellar wallets (SEP-0005).
const StellarPath = "m/44'/148'/0'"

// PublicKey is a raw ed25519 public key.
type PublicKey []byte

var _ PubKey = PublicKey(nil)

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message []byte, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a permission
func (p PublicKey) Condition() geodrop.Condition {
	return geodrop.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the identity this public key speaks for.
func (p PublicKey) Address() geodrop.Address {
	return p.Condition().Address()
}

// PrivateKey is a raw ed25519 private key, the seed followed by the
// public key.
type PrivateKey []byte

var _ Signer = PrivateKey(nil)

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}

// DeriveForPath derives a private key from a BIP-39 seed following the
// SLIP-0010 ed25519 scheme, for example with the StellarPath.
func DeriveForPath(path string, seed []byte) (PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
