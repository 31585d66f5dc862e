package app

import (
	"github.com/iov-one/geodrop/errors"
)

// Response codes
// app reserves 20 ~ 29.
var (
	ErrNoSuchPath = errors.Register(20, "path not registered")
	ErrNotGenesis = errors.Register(21, "chain already initialized")
	ErrNoChainID  = errors.Register(22, "chain not initialized")
)
