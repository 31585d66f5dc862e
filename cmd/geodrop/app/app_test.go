package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/app"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/crypto"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
	"github.com/iov-one/geodrop/orm"
	"github.com/iov-one/geodrop/x"
	"github.com/iov-one/geodrop/x/cash"
	"github.com/iov-one/geodrop/x/drop"
	"github.com/iov-one/geodrop/x/sigs"
	"github.com/stretchr/testify/require"
)

const chainID = "geodrop-e2e"

func genesis(t *testing.T, token geodrop.Address, funded map[string]geodrop.Address) geodrop.Options {
	t.Helper()
	var accounts []cash.GenesisAccount
	for _, addr := range funded {
		accounts = append(accounts, cash.GenesisAccount{
			Address: addr,
			Token:   token,
			Amount:  coin.NewInt128(1000),
		})
	}
	rawCash, err := json.Marshal(accounts)
	require.NoError(t, err)
	rawConf, err := json.Marshal(map[string]interface{}{
		drop.ConfigPkg: drop.GenesisConfig{Token: token},
	})
	require.NoError(t, err)
	return geodrop.Options{
		"cash": rawCash,
		"conf": rawConf,
	}
}

// signedMsg is a message that carries a credential.
type signedMsg interface {
	geodrop.Msg
	SignBytes() ([]byte, error)
}

// deliver signs msg with the next nonce of key read from the committed
// state and delivers it.
func deliver(t *testing.T, a *app.Application, key crypto.Signer, msg signedMsg, setCred func(*x.Credential)) (*geodrop.DeliverResult, error) {
	t.Helper()
	var nonce int64
	err := a.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		nonce, err = sigs.NewAuthorizer().NextNonce(db, key.PublicKey().Address())
		return err
	})
	require.NoError(t, err)
	cred, err := sigs.Sign(key, a.ChainID(), msg, nonce)
	require.NoError(t, err)
	setCred(cred)
	return a.Deliver(app.NewTx(msg))
}

func TestDropLifecycle(t *testing.T) {
	db, cleanup := geodroptest.CommitKVStore(t)
	defer cleanup()

	token := geodroptest.NewAddress()
	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()
	aliceAddr := alice.PublicKey().Address()
	bobAddr := bob.PublicKey().Address()

	a, err := Application(db)
	require.NoError(t, err)
	var events []app.Event
	a.Subscribe(func(e app.Event) { events = append(events, e) })

	gen := genesis(t, token, map[string]geodrop.Address{"alice": aliceAddr, "bob": bobAddr})
	require.NoError(t, a.InitChain(chainID, gen))
	require.Equal(t, int64(1), a.Height())

	create := &drop.CreateDropMsg{
		Creator: aliceAddr,
		Amount:  coin.NewInt128p(300),
		Message: "under the old oak",
	}
	res, err := deliver(t, a, alice, create, func(c *x.Credential) { create.Credential = c })
	require.NoError(t, err)
	id, err := orm.DecodeSequence(res.Data)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	claim := &drop.ClaimDropMsg{DropID: id, Claimer: bobAddr}
	_, err = deliver(t, a, bob, claim, func(c *x.Credential) { claim.Credential = c })
	require.NoError(t, err)

	// Submitting the same signed message again must fail on the nonce.
	_, err = a.Deliver(app.NewTx(claim))
	require.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	// A failed transaction does not create a version.
	require.Equal(t, int64(3), a.Height())
	require.Len(t, events, 2)
	require.Equal(t, "drop/create", events[0].Path)
	require.Equal(t, "drop/claim", events[1].Path)

	check := func(a *app.Application) {
		t.Helper()
		ctrl := Controller()
		bank := cash.NewController()
		err := a.View(func(db geodrop.ReadOnlyKVStore) error {
			d, err := ctrl.GetDrop(db, id)
			require.NoError(t, err)
			require.True(t, d.Claimed)
			require.Equal(t, bobAddr, d.Claimer)
			require.Equal(t, int64(2), d.CreatedHeight)
			require.Equal(t, int64(3), d.ClaimedHeight)

			count, err := ctrl.GetDropCount(db)
			require.NoError(t, err)
			require.Equal(t, uint64(1), count)

			bal, err := bank.Balance(db, token, aliceAddr)
			require.NoError(t, err)
			require.Equal(t, coin.NewInt128(700), bal)
			bal, err = bank.Balance(db, token, bobAddr)
			require.NoError(t, err)
			require.Equal(t, coin.NewInt128(1300), bal)
			bal, err = ctrl.CustodyBalance(db)
			require.NoError(t, err)
			require.True(t, bal.IsZero())
			return nil
		})
		require.NoError(t, err)
	}
	check(a)

	// Reopening the same store restores the chain and its state.
	again, err := Application(db)
	require.NoError(t, err)
	require.Equal(t, chainID, again.ChainID())
	require.Equal(t, int64(3), again.Height())
	check(again)
}

func TestCancelThroughStack(t *testing.T) {
	token := geodroptest.NewAddress()
	alice := crypto.GenPrivKeyEd25519()
	mallory := crypto.GenPrivKeyEd25519()
	aliceAddr := alice.PublicKey().Address()

	db, err := CommitKVStore("")
	require.NoError(t, err)
	a, err := Application(db)
	require.NoError(t, err)
	gen := genesis(t, token, map[string]geodrop.Address{"alice": aliceAddr})
	require.NoError(t, a.InitChain(chainID, gen))

	create := &drop.CreateDropMsg{Creator: aliceAddr, Amount: coin.NewInt128p(250)}
	_, err = deliver(t, a, alice, create, func(c *x.Credential) { create.Credential = c })
	require.NoError(t, err)

	// Somebody else cannot cancel, even when they sign for themselves.
	steal := &drop.CancelDropMsg{DropID: 1, Creator: mallory.PublicKey().Address()}
	_, err = deliver(t, a, mallory, steal, func(c *x.Credential) { steal.Credential = c })
	require.True(t, drop.ErrNotCreator.Is(err), "got %+v", err)

	cancel := &drop.CancelDropMsg{DropID: 1, Creator: aliceAddr}
	_, err = deliver(t, a, alice, cancel, func(c *x.Credential) { cancel.Credential = c })
	require.NoError(t, err)

	err = a.View(func(db geodrop.ReadOnlyKVStore) error {
		_, err := Controller().GetDrop(db, 1)
		require.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
		bal, err := cash.NewController().Balance(db, token, aliceAddr)
		require.NoError(t, err)
		require.Equal(t, coin.NewInt128(1000), bal)
		return nil
	})
	require.NoError(t, err)
}
