package drop

import (
	"strconv"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys attached to the result of every successful operation.
const (
	TagDropID  = "drop.id"
	TagCreator = "drop.creator"
	TagClaimer = "drop.claimer"
	TagAmount  = "drop.amount"
	TagEvent   = "drop.event"
)

// Values of the TagEvent tag.
const (
	EventInitialized = "initialized"
	EventCreated     = "created"
	EventClaimed     = "claimed"
	EventCancelled   = "cancelled"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r geodrop.Registry, ctrl Controller) {
	r.Handle(pathInitMsg, InitHandler{ctrl})
	r.Handle(pathCreateMsg, CreateDropHandler{ctrl})
	r.Handle(pathClaimMsg, ClaimDropHandler{ctrl})
	r.Handle(pathCancelMsg, CancelDropHandler{ctrl})
}

// InitHandler sets the instance token.
type InitHandler struct {
	ctrl Controller
}

var _ geodrop.Handler = InitHandler{}

// Deliver configures the token if it was not configured yet.
func (h InitHandler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(*InitMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidMsg, raw)
	}
	if err := h.ctrl.Initialize(db, msg.Token); err != nil {
		return nil, err
	}
	return &geodrop.DeliverResult{
		Log: "initialized",
		Tags: []common.KVPair{
			tag(TagEvent, EventInitialized),
		},
	}, nil
}

// CreateDropHandler deposits funds into a new drop.
type CreateDropHandler struct {
	ctrl Controller
}

var _ geodrop.Handler = CreateDropHandler{}

// Deliver creates the drop and returns its id as the result data.
func (h CreateDropHandler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(*CreateDropMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidMsg, raw)
	}
	id, err := h.ctrl.CreateDrop(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &geodrop.DeliverResult{
		Data: EncodeID(id),
		Log:  "drop " + strconv.FormatUint(id, 10) + " created",
		Tags: []common.KVPair{
			tag(TagEvent, EventCreated),
			tag(TagDropID, strconv.FormatUint(id, 10)),
			tag(TagCreator, msg.Creator.String()),
			tag(TagAmount, msg.Amount.String()),
		},
	}, nil
}

// ClaimDropHandler pays a drop out to the claimer.
type ClaimDropHandler struct {
	ctrl Controller
}

var _ geodrop.Handler = ClaimDropHandler{}

// Deliver claims the drop.
func (h ClaimDropHandler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(*ClaimDropMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidMsg, raw)
	}
	d, err := h.ctrl.ClaimDrop(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &geodrop.DeliverResult{
		Log: "drop " + strconv.FormatUint(d.ID, 10) + " claimed",
		Tags: []common.KVPair{
			tag(TagEvent, EventClaimed),
			tag(TagDropID, strconv.FormatUint(d.ID, 10)),
			tag(TagClaimer, d.Claimer.String()),
			tag(TagAmount, d.Amount.String()),
		},
	}, nil
}

// CancelDropHandler refunds a drop to its creator.
type CancelDropHandler struct {
	ctrl Controller
}

var _ geodrop.Handler = CancelDropHandler{}

// Deliver cancels the drop.
func (h CancelDropHandler) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(*CancelDropMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidMsg, raw)
	}
	d, err := h.ctrl.CancelDrop(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &geodrop.DeliverResult{
		Log: "drop " + strconv.FormatUint(d.ID, 10) + " cancelled",
		Tags: []common.KVPair{
			tag(TagEvent, EventCancelled),
			tag(TagDropID, strconv.FormatUint(d.ID, 10)),
			tag(TagCreator, d.Creator.String()),
			tag(TagAmount, d.Amount.String()),
		},
	}, nil
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

// EncodeID returns the binary form of a drop id used as result data.
func EncodeID(id uint64) []byte {
	return orm.EncodeSequence(id)
}
