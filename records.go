package systemd

import "github.com/sysdkit/systemd/serial"

// UnitStatus is one row of the manager's unit listing.
type UnitStatus struct {
	// Name is the primary unit name, e.g. "ssh.service".
	Name string
	// Description is the human-readable unit description.
	Description string
	// LoadState is the load state, e.g. "loaded".
	LoadState string
	// ActiveState is the high-level activation state, e.g. "active".
	ActiveState string
	// SubState is the unit-type-specific state, e.g. "running".
	SubState string
	// Followed is the name of the unit being followed, if any.
	Followed string
	// Path is the unit's object path.
	Path ObjectPath
	// JobID is the id of the pending job for this unit, or zero.
	JobID uint32
	// JobType is the pending job's type as a string.
	JobType string
	// JobPath is the pending job's object path.
	JobPath ObjectPath
}

func (u UnitStatus) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		return encodeFields(e,
			u.Name, u.Description, u.LoadState, u.ActiveState,
			u.SubState, u.Followed, u.Path, u.JobID, u.JobType, u.JobPath)
	})
}

func (u *UnitStatus) UnmarshalDBus(d *serial.Decoder) error {
	return d.Struct(func(d *serial.Decoder) error {
		return decodeFields(d,
			&u.Name, &u.Description, &u.LoadState, &u.ActiveState,
			&u.SubState, &u.Followed, &u.Path, &u.JobID, &u.JobType, &u.JobPath)
	})
}

// Job describes one queued manager job.
type Job struct {
	// ID is the numeric job id.
	ID uint32
	// Name is the primary unit name for this job.
	Name string
	// Type is the job type as a string, e.g. "start".
	Type string
	// State is the job state as a string, e.g. "waiting".
	State string
	// Path is the job's object path.
	Path ObjectPath
	// UnitPath is the object path of the job's unit.
	UnitPath ObjectPath
}

func (j Job) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		return encodeFields(e, j.ID, j.Name, j.Type, j.State, j.Path, j.UnitPath)
	})
}

func (j *Job) UnmarshalDBus(d *serial.Decoder) error {
	return d.Struct(func(d *serial.Decoder) error {
		return decodeFields(d, &j.ID, &j.Name, &j.Type, &j.State, &j.Path, &j.UnitPath)
	})
}

// UnitFile is one row of the manager's unit file listing.
type UnitFile struct {
	// Name is the unit file path.
	Name string
	// State is the enablement state as a string.
	State string
}

func (f UnitFile) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		return encodeFields(e, f.Name, f.State)
	})
}

func (f *UnitFile) UnmarshalDBus(d *serial.Decoder) error {
	return d.Struct(func(d *serial.Decoder) error {
		return decodeFields(d, &f.Name, &f.State)
	})
}

// UnitFileChange describes one filesystem change made by an
// enable/disable style operation.
type UnitFileChange struct {
	// Action is the change performed, e.g. "symlink" or "unlink".
	Action string
	// Link is the path of the symlink touched.
	Link string
	// Destination is the symlink's target.
	Destination string
}

func (c UnitFileChange) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		return encodeFields(e, c.Action, c.Link, c.Destination)
	})
}

func (c *UnitFileChange) UnmarshalDBus(d *serial.Decoder) error {
	return d.Struct(func(d *serial.Decoder) error {
		return decodeFields(d, &c.Action, &c.Link, &c.Destination)
	})
}

// UnitFileChanges is the reply of operations that report install info
// alongside their changes. It spans two reply values, so it only
// decodes at the top level of a reply.
type UnitFileChanges struct {
	// CarriesInstallInfo reports whether the unit files carry
	// enablement information.
	CarriesInstallInfo bool
	// Changes lists the filesystem changes performed.
	Changes []UnitFileChange
}

func (c *UnitFileChanges) UnmarshalDBus(d *serial.Decoder) error {
	var err error
	if c.CarriesInstallInfo, err = d.Bool(); err != nil {
		return err
	}
	c.Changes, err = serial.DecodeList[UnitFileChange](d)
	return err
}

// UnitProperty is a single named unit property.
type UnitProperty struct {
	Name  string
	Value string
}

func (p UnitProperty) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		return encodeFields(e, p.Name, p.Value)
	})
}

func (p *UnitProperty) UnmarshalDBus(d *serial.Decoder) error {
	return d.Struct(func(d *serial.Decoder) error {
		return decodeFields(d, &p.Name, &p.Value)
	})
}

// UnitAux names an auxiliary unit and its properties, passed alongside
// a transient unit.
type UnitAux struct {
	Name       string
	Properties []UnitProperty
}

func (a UnitAux) MarshalDBus(e *serial.Encoder) error {
	return e.Struct(func(e *serial.Encoder) error {
		e.String(a.Name)
		return serial.List[UnitProperty](a.Properties).MarshalDBus(e)
	})
}

// encodeFields emits each field in order.
func encodeFields(e *serial.Encoder, fields ...any) error {
	for _, f := range fields {
		if err := e.Value(f); err != nil {
			return err
		}
	}
	return nil
}

// decodeFields reads one value per field, in order. Each field must be
// a pointer.
func decodeFields(d *serial.Decoder, fields ...any) error {
	for _, f := range fields {
		if err := d.Value(f); err != nil {
			return err
		}
	}
	return nil
}
