package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes below 20 belong to this
// package, the app uses 20 to 29 and extensions register theirs from 1000
// up (x/drop uses 1100 to 1199).
var (
	// ErrUnauthorized is returned when a credential does not cover the
	// identity, the operation or its arguments.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a record, for example a drop, does not
	// exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned for a message that no handler accepts.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned when a record fails validation and must
	// not be persisted.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when stored data contradicts itself.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned when a value is not of the expected type
	// or encoding.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when a wallet holds less than a
	// transfer requires.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrInvalidAmount is returned for an amount that is zero or negative
	// where a positive one is required.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrOverflow is returned when a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(17, "database error")

	// ErrIteratorDone is returned by an iterator when there are no more
	// items to read.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrPanic is set only by Recover. Its log is always redacted.
	ErrPanic = Register(111222, "panic")
)

// usedCodes maps every registered code to its error. Code 1 is reserved
// for internal errors.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a root error with a code unique in the process. It
// panics when the code is taken, so call it only from package variable
// declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Runtime errors wrap one of them so that callers
// can test the kind with Is and clients receive a stable code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the response code of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is returns true if err is this root error or wraps it. A nil kind
// matches only nil errors, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for err != nil {
		if err == kind {
			return true
		}
		if t, ok := err.(*taggedError); ok && t.kind == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds description to err. Wrapping nil returns nil.
//
// The innermost wrap records the stack trace, outer ones only add text.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Tag reports err as an instance of kind while keeping err as the cause.
// Both kind.Is and the root error of err match the result, and the
// response code is the one of kind. Tagging nil returns nil.
func Tag(kind *Error, err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &taggedError{kind: kind, msg: description, parent: err}
}

type taggedError struct {
	kind   *Error
	msg    string
	parent error
}

func (e *taggedError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.msg, e.kind.desc, e.parent.Error())
}

func (e *taggedError) Cause() error {
	return e.parent
}

// Code returns the code of the tag, not the one of the cause.
func (e *taggedError) Code() uint32 {
	return e.kind.code
}

// Recover turns a panic into an ErrPanic assigned to err. Use it with
// defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is implemented by errors that wrap another one.
type causer interface {
	Cause() error
}
