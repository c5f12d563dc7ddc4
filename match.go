package systemd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/creachadair/mds/value"

	"github.com/sysdkit/systemd/transport"
	"github.com/sysdkit/systemd/wire"
)

// Match is a filter that selects broadcast messages. The zero Match
// selects everything; each builder method narrows the selection.
type Match struct {
	typ         value.Maybe[string]
	sender      value.Maybe[string]
	iface       value.Maybe[string]
	member      value.Maybe[string]
	object      value.Maybe[ObjectPath]
	destination value.Maybe[string]
	args        map[int]string
}

// NewMatch returns a Match that selects every broadcast message.
func NewMatch() *Match {
	return &Match{}
}

// MatchSignals returns a Match for broadcast signals.
func MatchSignals() *Match {
	return NewMatch().Type("signal")
}

// Type restricts the match to messages of the named type, e.g.
// "signal".
func (m *Match) Type(t string) *Match {
	m.typ = value.Just(t)
	return m
}

// Sender restricts the match to messages from the named peer.
func (m *Match) Sender(s string) *Match {
	m.sender = value.Just(s)
	return m
}

// Interface restricts the match to one interface.
func (m *Match) Interface(iface string) *Match {
	m.iface = value.Just(iface)
	return m
}

// Member restricts the match to one member name.
func (m *Match) Member(member string) *Match {
	m.member = value.Just(member)
	return m
}

// Object restricts the match to messages emitted by one object path.
func (m *Match) Object(o ObjectPath) *Match {
	m.object = value.Just(o)
	return m
}

// Destination restricts the match to messages addressed to the named
// peer.
func (m *Match) Destination(d string) *Match {
	m.destination = value.Just(d)
	return m
}

// Arg restricts the match to messages whose i-th body value is a
// string equal to val.
func (m *Match) Arg(i int, val string) *Match {
	if m.args == nil {
		m.args = map[int]string{}
	}
	m.args[i] = val
	return m
}

// String returns the match in the rule format the bus wants for the
// AddMatch and RemoveMatch methods.
func (m *Match) String() string {
	var ms []string
	kv := func(k, v string) {
		ms = append(ms, fmt.Sprintf("%s=%s", k, escapeMatchArg(v)))
	}

	if t, ok := m.typ.GetOK(); ok {
		kv("type", t)
	}
	if s, ok := m.sender.GetOK(); ok {
		kv("sender", s)
	}
	if i, ok := m.iface.GetOK(); ok {
		kv("interface", i)
	}
	if mb, ok := m.member.GetOK(); ok {
		kv("member", mb)
	}
	if o, ok := m.object.GetOK(); ok {
		kv("path", o.String())
	}
	if d, ok := m.destination.GetOK(); ok {
		kv("destination", d)
	}
	for _, i := range slices.Sorted(maps.Keys(m.args)) {
		kv(fmt.Sprintf("arg%d", i), m.args[i])
	}

	return strings.Join(ms, ",")
}

// matches reports whether sig passes the filter. A connection receives
// one stream of signals; when several watchers are active the stream
// is the union of their rules, so each watcher re-filters what it
// hands out.
func (m *Match) matches(sig transport.Signal) bool {
	if t, ok := m.typ.GetOK(); ok && t != "signal" {
		return false
	}
	if s, ok := m.sender.GetOK(); ok && sig.Sender != s {
		return false
	}
	if i, ok := m.iface.GetOK(); ok && sig.Interface != i {
		return false
	}
	if mb, ok := m.member.GetOK(); ok && sig.Member != mb {
		return false
	}
	if o, ok := m.object.GetOK(); ok && sig.Path != string(o) {
		return false
	}
	for i, want := range m.args {
		if i >= len(sig.Body) {
			return false
		}
		got, ok := stringArg(sig.Body[i])
		if !ok || got != want {
			return false
		}
	}
	return true
}

func stringArg(v wire.Value) (string, bool) {
	switch v := v.(type) {
	case wire.Str:
		return string(v), true
	case wire.ObjectPath:
		return string(v), true
	}
	return "", false
}

func escapeMatchArg(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	return "'" + s + "'"
}
