package geodroptest

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/x"
)

// Auth is a mock implementing the x.Authorizer interface.
//
// It ignores the credential content and authorizes only the identities
// listed in Allow. Every call is recorded in Calls so tests can check
// which identities were asked for.
type Auth struct {
	Allow []geodrop.Address
	Calls []geodrop.Address
}

var _ x.Authorizer = (*Auth)(nil)

// Authorize accepts any non nil credential for an allowed identity.
func (a *Auth) Authorize(ctx geodrop.Context, db geodrop.KVStore, identity geodrop.Address, cred *x.Credential, msg x.Signable) error {
	a.Calls = append(a.Calls, identity)
	if cred == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing credential")
	}
	for _, addr := range a.Allow {
		if addr.Equals(identity) {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s not allowed", identity)
}

// AnyCredential is a placeholder credential for use with Auth.
func AnyCredential() *x.Credential {
	return &x.Credential{Pubkey: []byte{1}, Signature: []byte{1}}
}
