package app

import (
	"context"
	"testing"

	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
	"github.com/iov-one/geodrop/geodroptest/assert"
	"github.com/iov-one/geodrop/store"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	ctx := context.Background()
	db := store.MemStore()

	good := &geodroptest.Handler{}
	bad := &geodroptest.Handler{DeliverErr: errors.ErrUnauthorized}
	r.Handle("drop/good", good)
	r.Handle("drop/bad", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("drop/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	_, err := r.Deliver(ctx, db, &geodroptest.Tx{Msg: &geodroptest.Msg{RoutePath: "drop/good"}})
	assert.Nil(t, err)
	assert.Equal(t, 1, good.CallCount())

	_, err = r.Deliver(ctx, db, &geodroptest.Tx{Msg: &geodroptest.Msg{RoutePath: "drop/bad"}})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(ctx, db, &geodroptest.Tx{Msg: &geodroptest.Msg{RoutePath: "drop/missing"}})
	assert.IsErr(t, ErrNoSuchPath, err)

	_, err = r.Deliver(ctx, db, &geodroptest.Tx{Err: errors.ErrInvalidInput})
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = r.Deliver(ctx, db, &geodroptest.Tx{})
	assert.IsErr(t, errors.ErrInvalidMsg, err)

	assert.Equal(t, 1, good.CallCount())
}
