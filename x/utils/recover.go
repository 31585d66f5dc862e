package utils

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ geodrop.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx geodrop.Context, store geodrop.KVStore, tx geodrop.Tx, next geodrop.Handler) (_ *geodrop.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
