package app

import (
	"context"
	"testing"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
	"github.com/iov-one/geodrop/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &geodroptest.Decorator{}
	c2 := &geodroptest.Decorator{}
	var nilDecorator *geodroptest.Decorator
	h := &geodroptest.Handler{}

	stack := ChainDecorators(
		c1,
		nilDecorator,
		utils.NewLogging(),
		utils.NewRecovery(),
	).Chain(c2, nil).WithHandler(h)

	ctx := context.Background()
	_, err := stack.Deliver(ctx, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, c1.CallCount())
	assert.Equal(t, 1, c2.CallCount())
	assert.Equal(t, 1, h.CallCount())

	// an error stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 1, h.CallCount())

	// a panic below recovery becomes an error
	c2.DeliverErr = nil
	h.Panic = "boom"
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Equal(t, 2, h.CallCount())
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) geodrop.Decorator {
		return orderDecorator{name: name, order: &order}
	}
	h := &geodroptest.Handler{}
	_, err := ChainDecorators(mark("a"), mark("b")).Chain(mark("c")).WithHandler(h).Deliver(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

type orderDecorator struct {
	name  string
	order *[]string
}

func (d orderDecorator) Deliver(ctx geodrop.Context, db geodrop.KVStore, tx geodrop.Tx, next geodrop.Handler) (*geodrop.DeliverResult, error) {
	*d.order = append(*d.order, d.name)
	return next.Deliver(ctx, db, tx)
}
