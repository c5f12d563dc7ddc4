package systemd

import (
	"context"
	"fmt"
	"sync"

	"github.com/creachadair/mds/mapset"

	"github.com/sysdkit/systemd/serial"
	"github.com/sysdkit/systemd/transport"
	"github.com/sysdkit/systemd/wire"
)

const (
	busName          = "org.freedesktop.systemd1"
	managerPath      = "/org/freedesktop/systemd1"
	managerInterface = "org.freedesktop.systemd1.Manager"
)

// Conn is a client for the service manager. Its methods map one-to-one
// onto the manager's bus API, translating arguments and replies through
// the serial codec.
//
// A Conn is safe for concurrent use.
type Conn struct {
	mgr transport.Caller
	bus *transport.Bus

	mu       sync.Mutex
	watchers mapset.Set[*Watcher]
}

// New connects to the service manager over the system bus.
func New() (*Conn, error) {
	bus, err := transport.DialSystem()
	if err != nil {
		return nil, err
	}
	return &Conn{
		mgr: bus.Object(busName, managerPath, managerInterface),
		bus: bus,
	}, nil
}

// NewSession connects to the current user's service manager over the
// session bus.
func NewSession() (*Conn, error) {
	bus, err := transport.DialSession()
	if err != nil {
		return nil, err
	}
	return &Conn{
		mgr: bus.Object(busName, managerPath, managerInterface),
		bus: bus,
	}, nil
}

// NewWithCaller returns a Conn that performs manager calls through t.
// The returned Conn has no bus connection of its own, so [Conn.Watch]
// is unavailable.
func NewWithCaller(t transport.Caller) *Conn {
	return &Conn{mgr: t}
}

// Close shuts down active watchers and the underlying bus connection,
// if any.
func (c *Conn) Close() error {
	var ws mapset.Set[*Watcher]
	c.mu.Lock()
	ws, c.watchers = c.watchers, nil
	c.mu.Unlock()
	for w := range ws {
		w.Close()
	}
	if c.bus == nil {
		return nil
	}
	return c.bus.Close()
}

// roundTrip encodes args, performs one manager call, and returns the
// raw reply body.
func (c *Conn) roundTrip(ctx context.Context, method string, args []any) ([]wire.Value, error) {
	enc := make([]wire.Value, len(args))
	for i, a := range args {
		v, err := serial.Encode(a)
		if err != nil {
			return nil, fmt.Errorf("encoding %s argument %d: %w", method, i, err)
		}
		enc[i] = v
	}
	return c.mgr.Call(ctx, method, enc)
}

// send performs a manager call whose reply carries no values of
// interest.
func (c *Conn) send(ctx context.Context, method string, args ...any) error {
	_, err := c.roundTrip(ctx, method, args)
	return err
}

// call performs a manager call and decodes the reply's leading value
// as a T.
func call[T any](ctx context.Context, c *Conn, method string, args ...any) (T, error) {
	var zero T
	body, err := c.roundTrip(ctx, method, args)
	if err != nil {
		return zero, err
	}
	v, err := serial.Decode[T](body)
	if err != nil {
		return zero, fmt.Errorf("decoding %s reply: %w", method, err)
	}
	return v, nil
}

// listCall performs a manager call whose reply is a single array of T
// values.
func listCall[T any, P interface {
	serial.Unmarshaler
	*T
}](ctx context.Context, c *Conn, method string, args ...any) ([]T, error) {
	body, err := c.roundTrip(ctx, method, args)
	if err != nil {
		return nil, err
	}
	out, err := serial.DecodeList[T, P](serial.NewDecoder(body))
	if err != nil {
		return nil, fmt.Errorf("decoding %s reply: %w", method, err)
	}
	return out, nil
}
