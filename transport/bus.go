package transport

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/sysdkit/systemd/wire"
)

// DefaultCallTimeout bounds a blocking call when the caller's context
// carries no deadline of its own.
const DefaultCallTimeout = 2 * time.Second

// Bus is a connection to a message bus, backed by godbus.
type Bus struct {
	conn *dbus.Conn

	// CallTimeout is applied to calls whose context has no deadline.
	// Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// DialSystem connects to the system bus.
func DialSystem() (*Bus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return &Bus{conn: conn}, nil
}

// DialSession connects to the current user's session bus.
func DialSession() (*Bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &Bus{conn: conn}, nil
}

func (b *Bus) Close() error { return b.conn.Close() }

// Object returns a Caller bound to one interface of one remote object.
func (b *Bus) Object(dest, path, iface string) Caller {
	return object{
		bus:   b,
		obj:   b.conn.Object(dest, dbus.ObjectPath(path)),
		iface: iface,
	}
}

// AddMatch subscribes the connection to bus messages selected by rule.
func (b *Bus) AddMatch(ctx context.Context, rule string) error {
	return b.busCall(ctx, "org.freedesktop.DBus.AddMatch", rule)
}

// RemoveMatch drops a subscription added with AddMatch.
func (b *Bus) RemoveMatch(ctx context.Context, rule string) error {
	return b.busCall(ctx, "org.freedesktop.DBus.RemoveMatch", rule)
}

func (b *Bus) busCall(ctx context.Context, method string, args ...any) error {
	ctx, cancel := b.callContext(ctx)
	defer cancel()
	return b.conn.BusObject().CallWithContext(ctx, method, 0, args...).Err
}

// Signals starts delivering matched broadcast messages on the returned
// channel. The stop function unregisters the stream and closes the
// channel. Messages whose body contains a value with no wire
// representation are dropped.
func (b *Bus) Signals(buf int) (<-chan Signal, func()) {
	raw := make(chan *dbus.Signal, buf)
	b.conn.Signal(raw)
	out := make(chan Signal, buf)
	go func() {
		defer close(out)
		for sig := range raw {
			s, err := signalFromNative(sig)
			if err != nil {
				continue
			}
			out <- s
		}
	}()
	stop := func() {
		b.conn.RemoveSignal(raw)
		close(raw)
	}
	return out, stop
}

func (b *Bus) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	d := b.CallTimeout
	if d == 0 {
		d = DefaultCallTimeout
	}
	return context.WithTimeout(ctx, d)
}

// object is a Caller bound to one interface of one remote object.
type object struct {
	bus   *Bus
	obj   dbus.BusObject
	iface string
}

func (o object) Call(ctx context.Context, member string, args []wire.Value) ([]wire.Value, error) {
	nargs := make([]any, len(args))
	for i, a := range args {
		n, err := toNative(a)
		if err != nil {
			return nil, err
		}
		nargs[i] = n
	}

	ctx, cancel := o.bus.callContext(ctx)
	defer cancel()

	call := o.obj.CallWithContext(ctx, o.iface+"."+member, 0, nargs...)
	if call.Err != nil {
		var dbusErr dbus.Error
		if errors.As(call.Err, &dbusErr) {
			return nil, CallError{Name: dbusErr.Name, Detail: errorDetail(dbusErr)}
		}
		return nil, call.Err
	}
	return bodyFromNative(call.Body)
}

func errorDetail(err dbus.Error) string {
	if len(err.Body) == 0 {
		return ""
	}
	if s, ok := err.Body[0].(string); ok {
		return s
	}
	return ""
}

func signalFromNative(sig *dbus.Signal) (Signal, error) {
	body, err := bodyFromNative(sig.Body)
	if err != nil {
		return Signal{}, err
	}
	iface, member := sig.Name, ""
	if i := strings.LastIndex(sig.Name, "."); i >= 0 {
		iface, member = sig.Name[:i], sig.Name[i+1:]
	}
	return Signal{
		Sender:    sig.Sender,
		Path:      string(sig.Path),
		Interface: iface,
		Member:    member,
		Body:      body,
	}, nil
}
