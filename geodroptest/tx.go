package geodroptest

import (
	"github.com/iov-one/geodrop"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg geodrop.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ geodrop.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (geodrop.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message that is routed by path only.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string `protobuf:"bytes,1,opt,name=route_path,proto3" json:"route_path"`
	// Err if set is returned by Validate.
	Err error `json:"-"`
}

var _ geodrop.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return "msg:" + m.RoutePath }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
