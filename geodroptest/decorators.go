package geodroptest

import "github.com/iov-one/geodrop"

// Decorator is a mock implementation of the geodrop.Decorator interface.
//
// Set DeliverErr to force an error response. If it is not set then the
// wrapped handler is called and its result returned.
// Each call is counted, regardless of the result.
type Decorator struct {
	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ geodrop.Decorator = (*Decorator)(nil)

func (d *Decorator) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx, next geodrop.Handler) (*geodrop.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.deliverCall
}

// Decorate returns a handler that calls h through d.
func Decorate(h geodrop.Handler, d geodrop.Decorator) geodrop.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn geodrop.Handler
	dc geodrop.Decorator
}

var _ geodrop.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
