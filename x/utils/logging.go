package utils

import (
	"time"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ geodrop.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx geodrop.Context, store geodrop.KVStore, tx geodrop.Tx, next geodrop.Handler) (*geodrop.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx geodrop.Context, start time.Time, msg string, err error) {
	delta := time.Now().Sub(start)
	logger := geodrop.GetLogger(ctx).With("duration", delta/time.Microsecond)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	if err != nil {
		code, _ := errors.Info(err, false)
		logger.With("err", err, "code", code).Error(msg)
		return
	}
	logger.Info(msg)
}
