package utils

import (
	"context"
	"testing"

	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
	"github.com/iov-one/geodrop/store"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	h := &geodroptest.Handler{Panic: "deliver panic"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Equal(t, 2, h.CallCount())
}
