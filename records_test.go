package systemd

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sysdkit/systemd/serial"
	"github.com/sysdkit/systemd/wire"
)

func TestUnitStatusDecode(t *testing.T) {
	got, err := serial.Decode[UnitStatus]([]wire.Value{
		wire.MakeStruct(
			wire.Str("ssh.service"),
			wire.Str("OpenSSH server"),
			wire.Str("loaded"),
			wire.Str("active"),
			wire.Str("running"),
			wire.Str(""),
			wire.ObjectPath("/org/freedesktop/systemd1/unit/ssh_2eservice"),
			wire.Uint32(0),
			wire.Str(""),
			wire.ObjectPath("/"),
		),
	})
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := UnitStatus{
		Name:        "ssh.service",
		Description: "OpenSSH server",
		LoadState:   "loaded",
		ActiveState: "active",
		SubState:    "running",
		Path:        "/org/freedesktop/systemd1/unit/ssh_2eservice",
		JobPath:     "/",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Decode diff (-got+want):\n%s", diff)
	}
}

func TestJobDecode(t *testing.T) {
	got, err := serial.Decode[Job]([]wire.Value{
		wire.MakeStruct(
			wire.Uint32(42),
			wire.Str("ssh.service"),
			wire.Str("start"),
			wire.Str("running"),
			wire.ObjectPath("/org/freedesktop/systemd1/job/42"),
			wire.ObjectPath("/org/freedesktop/systemd1/unit/ssh_2eservice"),
		),
	})
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := Job{
		ID:       42,
		Name:     "ssh.service",
		Type:     "start",
		State:    "running",
		Path:     "/org/freedesktop/systemd1/job/42",
		UnitPath: "/org/freedesktop/systemd1/unit/ssh_2eservice",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Decode diff (-got+want):\n%s", diff)
	}
}

func TestUnitStatusRoundTrip(t *testing.T) {
	in := UnitStatus{
		Name:        "cron.service",
		Description: "scheduler",
		LoadState:   "loaded",
		ActiveState: "inactive",
		SubState:    "dead",
		Path:        "/org/freedesktop/systemd1/unit/cron_2eservice",
		JobID:       7,
		JobType:     "stop",
		JobPath:     "/org/freedesktop/systemd1/job/7",
	}
	v, err := serial.Encode(in)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	got, err := serial.Decode[UnitStatus]([]wire.Value{v})
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, in); diff != "" {
		t.Errorf("round trip diff (-got+want):\n%s", diff)
	}
}

func TestUnitFileChangesDecode(t *testing.T) {
	// The reply spans two top-level values: the install info flag and
	// the change list.
	got, err := serial.Decode[UnitFileChanges]([]wire.Value{
		wire.Bool(true),
		wire.MakeArray(
			wire.MakeStruct(
				wire.Str("symlink"),
				wire.Str("/etc/systemd/system/multi-user.target.wants/ssh.service"),
				wire.Str("/lib/systemd/system/ssh.service"),
			),
		),
	})
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := UnitFileChanges{
		CarriesInstallInfo: true,
		Changes: []UnitFileChange{{
			Action:      "symlink",
			Link:        "/etc/systemd/system/multi-user.target.wants/ssh.service",
			Destination: "/lib/systemd/system/ssh.service",
		}},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Decode diff (-got+want):\n%s", diff)
	}
}

func TestUnitAuxEncode(t *testing.T) {
	got, err := serial.Encode(UnitAux{
		Name: "helper.service",
		Properties: []UnitProperty{
			{Name: "Description", Value: "helper"},
		},
	})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := wire.MakeStruct(
		wire.Str("helper.service"),
		wire.MakeArray(wire.MakeStruct(wire.Str("Description"), wire.Str("helper"))),
	)
	if !wire.Equal(got, want) {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestObjectPathCodec(t *testing.T) {
	v, err := serial.Encode(ObjectPath("/a/b"))
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if want := wire.ObjectPath("/a/b"); !wire.Equal(v, want) {
		t.Errorf("Encode = %s, want %s", v, want)
	}

	// Decodes from a plain Str too.
	got, err := serial.Decode[ObjectPath]([]wire.Value{wire.Str("/c")})
	if err != nil || got != "/c" {
		t.Errorf("Decode = %q, %v; want /c", got, err)
	}
}
