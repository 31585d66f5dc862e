package drop

import (
	"github.com/iov-one/geodrop/errors"
)

// Response codes
// drop reserves 1100 ~ 1109.
var (
	ErrAlreadyInitialized = errors.Register(1100, "already initialized")
	ErrNotInitialized     = errors.Register(1101, "not initialized")
	ErrAlreadyClaimed     = errors.Register(1102, "already claimed")
	ErrNotCreator         = errors.Register(1103, "not the creator")
	ErrTransferFailed     = errors.Register(1104, "transfer failed")
)
