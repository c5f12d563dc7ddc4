package systemd

import "github.com/sysdkit/systemd/serial"

// ObjectPath is the bus address of an object, for example
// "/org/freedesktop/systemd1/unit/ssh_2eservice".
type ObjectPath string

func (p ObjectPath) String() string { return string(p) }

func (p ObjectPath) MarshalDBus(e *serial.Encoder) error {
	e.ObjectPath(string(p))
	return e.Err()
}

func (p *ObjectPath) UnmarshalDBus(d *serial.Decoder) error {
	s, err := d.String()
	if err != nil {
		return err
	}
	*p = ObjectPath(s)
	return nil
}
