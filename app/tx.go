package app

import (
	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// Tx is an in-process transaction carrying exactly one message.
type Tx struct {
	Msg geodrop.Msg
}

var _ geodrop.Tx = Tx{}

// NewTx wraps msg into a transaction.
func NewTx(msg geodrop.Msg) Tx {
	return Tx{Msg: msg}
}

// GetMsg returns the message, or ErrInvalidMsg if there is none.
func (tx Tx) GetMsg() (geodrop.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "empty transaction")
	}
	return tx.Msg, nil
}
