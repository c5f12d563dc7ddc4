// Package systemd is a client for the systemd service manager's bus
// API.
//
// [Conn] connects to the manager over the system bus and exposes its
// method catalog directly: unit lifecycle (start, stop, restart,
// reload, kill), job control, unit file enablement, environment block
// edits, and manager-wide operations like daemon reload and power
// state changes. [Conn.Watch] delivers the broadcast signals selected
// by [Match] filters.
//
// Arguments and replies travel through the serial package's Encoder
// and Decoder, which map typed records and enums onto the dynamically
// typed wire values the bus speaks. Types in this package implement
// serial.Marshaler and serial.Unmarshaler by hand; there is no
// reflection in the call path.
package systemd
