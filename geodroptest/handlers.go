package geodroptest

import "github.com/iov-one/geodrop"

// Handler is a mock implementation of the geodrop.Handler interface.
//
// It returns DeliverResult and DeliverErr. If Write is set, the key value
// pair is written to the store before returning, regardless of the
// error. If Panic is set, Deliver panics with that value instead.
type Handler struct {
	deliverCall   int
	DeliverResult geodrop.DeliverResult
	DeliverErr    error

	Write *KV
	Panic interface{}
}

// KV is a single key value pair.
type KV struct {
	Key, Value []byte
}

var _ geodrop.Handler = (*Handler)(nil)

func (h *Handler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	h.deliverCall++
	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	// copy so that decorators appending tags do not modify the template
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CallCount() int {
	return h.deliverCall
}
