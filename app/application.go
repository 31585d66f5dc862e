package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// chainIDKey holds the chain id. The two character prefix cannot collide
// with any bucket.
const chainIDKey = "_a:chain_id"

// Event is published for every successfully committed transaction.
type Event struct {
	Height int64
	Path   string
	Tags   []common.KVPair
}

// Listener receives events. It is called after the state is committed
// and must not call back into the Application.
type Listener func(Event)

// Application executes transactions one at a time. Each transaction runs
// on a fresh cache of the committed state and becomes a new version of
// the store when it succeeds.
type Application struct {
	mu sync.Mutex

	store       geodrop.CommitKVStore
	handler     geodrop.Handler
	initializer geodrop.Initializer

	chainID string
	height  int64

	logger    log.Logger
	metrics   *Metrics
	listeners []Listener
	debug     bool
}

// NewApplication loads the latest version of store. The initializer is
// only used by InitChain and may be nil.
func NewApplication(store geodrop.CommitKVStore, handler geodrop.Handler, initializer geodrop.Initializer) (*Application, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	id, err := store.LatestVersion()
	if err != nil {
		return nil, errors.Wrap(err, "latest version")
	}
	raw, err := store.Get([]byte(chainIDKey))
	if err != nil {
		return nil, errors.Wrap(err, "load chain id")
	}
	return &Application{
		store:       store,
		handler:     handler,
		initializer: initializer,
		chainID:     string(raw),
		height:      id.Version,
		logger:      log.NewNopLogger(),
	}, nil
}

// WithLogger sets the logger used for the application and passed to
// every handler.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// WithMetrics enables metrics collection.
func (a *Application) WithMetrics(m *Metrics) *Application {
	a.metrics = m
	return a
}

// WithDebug makes logged errors include the stack trace.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// Subscribe registers a listener for all future events.
func (a *Application) Subscribe(l Listener) {
	a.mu.Lock()
	a.listeners = append(a.listeners, l)
	a.mu.Unlock()
}

// ChainID returns the chain id set at genesis, or an empty string.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// Height returns the last committed version.
func (a *Application) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// InitChain stores the chain id and loads the genesis app state through
// the initializer. It can succeed only once per store.
func (a *Application) InitChain(chainID string, opts geodrop.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(ErrNotGenesis, "chain id %q", a.chainID)
	}
	if !geodrop.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", chainID)
	}

	cache := a.store.CacheWrap()
	if err := cache.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		cache.Discard()
		return errors.Wrap(err, "save chain id")
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	id, err := a.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	a.chainID = chainID
	a.height = id.Version
	a.metrics.setHeight(id.Version)
	a.logger.Info("chain initialized", "chain_id", chainID, "height", id.Version)
	return nil
}

// Deliver runs tx and commits its changes if the handler succeeded. A
// failed transaction leaves the state untouched.
func (a *Application) Deliver(tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	a.mu.Lock()
	res, ev, err := a.deliver(tx)
	listeners := a.listeners
	a.mu.Unlock()

	if err != nil {
		return nil, err
	}
	for _, l := range listeners {
		l(ev)
	}
	return res, nil
}

func (a *Application) deliver(tx geodrop.Tx) (*geodrop.DeliverResult, Event, error) {
	start := time.Now()
	path := geodrop.GetPath(tx)
	if a.chainID == "" {
		return nil, Event{}, ErrNoChainID
	}

	height := a.height + 1
	logger := a.logger.With("path", path, "height", height)
	ctx := geodrop.WithLogger(context.Background(), logger)
	ctx = geodrop.WithChainID(ctx, a.chainID)
	ctx = geodrop.WithHeight(ctx, height)

	cache := a.store.CacheWrap()
	res, err := a.run(ctx, cache, tx)
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	if err != nil {
		code, info := errors.Info(err, a.debug)
		a.metrics.observe(path, code, start)
		logger.Info("transaction failed", "code", code, "log", info)
		return nil, Event{}, err
	}

	id, err := a.store.Commit()
	if err != nil {
		// The store cannot be trusted anymore.
		panic(errors.Wrap(err, "commit"))
	}
	a.height = id.Version
	a.metrics.observe(path, errors.SuccessCode, start)
	a.metrics.setHeight(id.Version)
	logger.Info("transaction committed", "hash", common.HexBytes(id.Hash), "tags", len(res.Tags))

	ev := Event{Height: id.Version, Path: path, Tags: res.Tags}
	return res, ev, nil
}

// run calls the handler and turns a panic into an error.
func (a *Application) run(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (res *geodrop.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = a.handler.Deliver(ctx, db, tx)
	if err == nil && res == nil {
		res = &geodrop.DeliverResult{}
	}
	return res, err
}

// View calls fn with a read only snapshot of the committed state.
func (a *Application) View(fn func(db geodrop.ReadOnlyKVStore) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cache := a.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}
