// Package transport carries wire values to and from the bus.
//
// The codec layers above deal only in [wire.Value] sequences; this
// package binds them to a live message bus. [Bus] wraps a godbus
// connection and hands out [Caller]s bound to one remote object, plus
// the match-rule and signal plumbing a watcher needs. Framing and
// authentication belong to godbus.
package transport

import (
	"context"

	"github.com/sysdkit/systemd/wire"
)

// A Caller performs blocking method calls against one bound remote
// object. Implementations must be safe for concurrent use.
type Caller interface {
	// Call invokes member with the given argument values and returns
	// the reply's body values. A remote failure is returned as a
	// [CallError].
	Call(ctx context.Context, member string, args []wire.Value) ([]wire.Value, error)
}

// A Signal is one broadcast message received from the bus.
type Signal struct {
	// Sender is the unique bus name of the emitting peer.
	Sender string
	// Path is the object that emitted the signal.
	Path string
	// Interface and Member name the signal.
	Interface string
	Member    string
	// Body is the signal's payload.
	Body []wire.Value
}

// CallError is the error returned when the remote peer rejects a
// method call.
type CallError struct {
	// Name is the error name provided by the remote peer.
	Name string
	// Detail is the human-readable explanation of what went wrong.
	Detail string
}

func (e CallError) Error() string {
	if e.Detail == "" {
		return "call error " + e.Name
	}
	return "call error " + e.Name + ": " + e.Detail
}
