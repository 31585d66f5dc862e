/*
Package app links together all the components to construct the geodrop
application.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/app"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/store/iavl"
	"github.com/iov-one/geodrop/x/cash"
	"github.com/iov-one/geodrop/x/drop"
	"github.com/iov-one/geodrop/x/sigs"
	"github.com/iov-one/geodrop/x/utils"
)

// Controller returns the drop engine authorizing with public key
// signatures and moving funds with the cash wallets.
func Controller() drop.Controller {
	return drop.NewController(sigs.NewAuthorizer(), cash.NewController())
}

// Chain returns the decorators that run around every handler.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// writes of a failed handler never reach the outer store
		utils.NewSavepoint(),
	)
}

// Router returns a router dispatching all drop messages to ctrl.
func Router(ctrl drop.Controller) *app.Router {
	r := app.NewRouter()
	drop.RegisterRoutes(r, ctrl)
	return r
}

// Stack wires up the router with the decorator chain.
func Stack() geodrop.Handler {
	return Chain().WithHandler(Router(Controller()))
}

// Initializers returns the genesis loaders of all extensions. Wallets
// are funded before the engine is configured.
func Initializers() geodrop.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		drop.Initializer{Ctrl: Controller()},
	)
}

// Application constructs the application on top of given store.
func Application(store geodrop.CommitKVStore) (*app.Application, error) {
	return app.NewApplication(store, Stack(), Initializers())
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
