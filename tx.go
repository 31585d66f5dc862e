package geodrop

import (
	"github.com/gogo/protobuf/proto"
)

// Msg is message for the engine to take an action
// (make a state transition). It is just the request, and
// must be validated by the Handlers.
type Msg interface {
	proto.Message

	// Return the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs only stateless checks on the message content.
	Validate() error
}

// Tx represent the data sent from the user to the engine.
// Exactly one message is carried by each transaction.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}
