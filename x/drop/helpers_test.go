package drop

import (
	"context"
	"testing"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/crypto"
	"github.com/iov-one/geodrop/geodroptest"
	"github.com/iov-one/geodrop/store"
	"github.com/iov-one/geodrop/x"
	"github.com/iov-one/geodrop/x/cash"
	"github.com/iov-one/geodrop/x/sigs"
)

const testChainID = "drop-test-chain"

// fixture is an initialized engine with a few funded identities that
// sign for themselves with real ed25519 keys.
type fixture struct {
	ctx   geodrop.Context
	db    store.CacheableKVStore
	token geodrop.Address
	bank  cash.BaseController
	ctrl  Controller
	auth  sigs.Authorizer
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   geodrop.WithChainID(context.Background(), testChainID),
		db:    store.MemStore(),
		token: geodroptest.NewAddress(),
		bank:  cash.NewController(),
		auth:  sigs.NewAuthorizer(),
	}
	f.ctrl = NewController(f.auth, f.bank)
	if err := f.ctrl.Initialize(f.db, f.token); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}
	return f
}

// fund mints amount of the fixture token to the key owner.
func (f *fixture) fund(t testing.TB, key crypto.Signer, amount int64) {
	t.Helper()
	if err := f.bank.CoinMint(f.db, f.token, geodroptest.KeyAddress(key), coin.NewInt128(amount)); err != nil {
		t.Fatalf("cannot fund: %+v", err)
	}
}

func (f *fixture) balance(t testing.TB, addr geodrop.Address) coin.Int128 {
	t.Helper()
	bal, err := f.bank.Balance(f.db, f.token, addr)
	if err != nil {
		t.Fatalf("cannot read balance: %+v", err)
	}
	return bal
}

// sign returns a credential of key for msg using the next nonce.
func (f *fixture) sign(t testing.TB, key crypto.Signer, msg x.Signable) *x.Credential {
	t.Helper()
	nonce, err := f.auth.NextNonce(f.db, geodroptest.KeyAddress(key))
	if err != nil {
		t.Fatalf("cannot read nonce: %+v", err)
	}
	cred, err := sigs.Sign(key, testChainID, msg, nonce)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	return cred
}

func (f *fixture) create(t testing.TB, key crypto.Signer, amount int64, message string) (uint64, error) {
	t.Helper()
	msg := &CreateDropMsg{
		Creator: geodroptest.KeyAddress(key),
		Amount:  coin.NewInt128p(amount),
		Message: message,
	}
	msg.Credential = f.sign(t, key, msg)
	return f.ctrl.CreateDrop(f.ctx, f.db, msg)
}

func (f *fixture) claim(t testing.TB, key crypto.Signer, id uint64) error {
	t.Helper()
	msg := &ClaimDropMsg{DropID: id, Claimer: geodroptest.KeyAddress(key)}
	msg.Credential = f.sign(t, key, msg)
	_, err := f.ctrl.ClaimDrop(f.ctx, f.db, msg)
	return err
}

func (f *fixture) cancel(t testing.TB, key crypto.Signer, id uint64) error {
	t.Helper()
	msg := &CancelDropMsg{DropID: id, Creator: geodroptest.KeyAddress(key)}
	msg.Credential = f.sign(t, key, msg)
	_, err := f.ctrl.CancelDrop(f.ctx, f.db, msg)
	return err
}
