package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/app"
	"github.com/iov-one/geodrop/crypto"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/store/iavl"
	"github.com/iov-one/geodrop/x"
	"github.com/iov-one/geodrop/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"

	geodropapp "github.com/iov-one/geodrop/cmd/geodrop/app"
)

// node is the application opened on the database of a home directory.
type node struct {
	conf     Config
	app      *app.Application
	store    *iavl.CommitStore
	logger   log.Logger
	registry *prometheus.Registry
}

func openNode(home string) (*node, error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return nil, err
	}

	dbPath := conf.DBPath
	if dbPath != "" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(home, dbPath)
	}
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("cannot create database directory: %s", err)
		}
	}
	store, err := geodropapp.CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	a, err := geodropapp.Application(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	n := &node{
		conf:   conf,
		app:    a.WithLogger(logger.With("module", "app")).WithDebug(conf.Debug),
		store:  store,
		logger: logger,
	}
	if conf.MetricsNamespace != "" {
		n.registry = prometheus.NewRegistry()
		a.WithMetrics(app.NewMetrics(conf.MetricsNamespace, n.registry))
	}
	a.Subscribe(func(e app.Event) {
		for _, t := range e.Tags {
			logger.Debug("event", "height", e.Height, "path", e.Path, string(t.Key), string(t.Value))
		}
	})
	return n, nil
}

// Close releases the database. Collected metrics are logged before.
func (n *node) Close() {
	if n.registry != nil {
		families, err := n.registry.Gather()
		if err != nil {
			n.logger.Error("cannot gather metrics", "err", err)
		}
		for _, f := range families {
			n.logger.Debug("metric", "name", f.GetName(), "series", len(f.GetMetric()))
		}
	}
	n.store.Close()
}

// deliver submits msg and translates the error into its code and log.
func (n *node) deliver(msg geodrop.Msg) (*geodrop.DeliverResult, error) {
	res, err := n.app.Deliver(app.NewTx(msg))
	if err != nil {
		code, info := errors.Info(err, n.conf.Debug)
		return nil, fmt.Errorf("%s failed with code %d: %s", msg.Path(), code, info)
	}
	return res, nil
}

// sign returns a credential of key for msg, using the next nonce from
// the committed state.
func (n *node) sign(key crypto.PrivateKey, msg x.Signable) (*x.Credential, error) {
	var nonce int64
	err := n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		nonce, err = sigs.NewAuthorizer().NextNonce(db, key.PublicKey().Address())
		return err
	})
	if err != nil {
		return nil, err
	}
	return sigs.Sign(key, n.app.ChainID(), msg, nonce)
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "main")
	if level == "" {
		return logger, nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

func loadKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return crypto.PrivateKey(raw), nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
