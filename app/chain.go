package app

import (
	"reflect"

	"github.com/iov-one/geodrop"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator runs first.
type Decorators struct {
	chain []geodrop.Decorator
}

// ChainDecorators starts a chain. Nil decorators, including typed nil
// pointers, are skipped so that optional ones can be passed directly.
//
//   app.ChainDecorators(
//       utils.NewLogging(),
//       utils.NewRecovery(),
//       utils.NewSavepoint(),
//   ).WithHandler(router)
func ChainDecorators(chain ...geodrop.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with given decorators appended. The receiver
// is not modified.
func (d Decorators) Chain(chain ...geodrop.Decorator) Decorators {
	joined := make([]geodrop.Decorator, 0, len(d.chain)+len(chain))
	joined = append(joined, d.chain...)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			joined = append(joined, dec)
		}
	}
	return Decorators{chain: joined}
}

func isNilDecorator(d geodrop.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h geodrop.Handler) geodrop.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator around the rest of the chain.
type step struct {
	d    geodrop.Decorator
	next geodrop.Handler
}

var _ geodrop.Handler = step{}

func (s step) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
