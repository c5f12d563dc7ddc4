package systemd

import "github.com/sysdkit/systemd/transport"

// CallError is the error returned when the service manager rejects a
// method call, carrying the bus error name and its explanation.
type CallError = transport.CallError
