package geodrop

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/geodrop/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "create a drop", or "claim a drop".
type Handler interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like panic recovery or logging to many Handlers
type Decorator interface {
	Deliver(ctx Context, store KVStore, tx Tx, next Handler) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// DeliverResult captures any non-error result
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags describe what happened. They are published once the
	// transaction state is committed.
	Tags []common.KVPair
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot parse %q: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements under the given key and
// returns a function that decodes one element per call. Once all
// elements are consumed the function returns ErrEmpty.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	data, ok := o[key]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmpty, "no data for key %q", key)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%q is not a list", key)
	}
	return func(obj interface{}) error {
		if !dec.More() {
			return errors.ErrEmpty
		}
		if err := dec.Decode(obj); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
