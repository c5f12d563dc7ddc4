package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sysdkit/systemd/transport"
	"github.com/sysdkit/systemd/wire"
)

// fakeCaller scripts one expected manager call.
type fakeCaller struct {
	t *testing.T

	wantMember string
	wantArgs   []wire.Value

	reply []wire.Value
	err   error
}

func (f *fakeCaller) Call(_ context.Context, member string, args []wire.Value) ([]wire.Value, error) {
	f.t.Helper()
	if member != f.wantMember {
		f.t.Errorf("called %s, want %s", member, f.wantMember)
	}
	if len(args) != len(f.wantArgs) {
		f.t.Fatalf("%s called with %d args, want %d: %v", member, len(args), len(f.wantArgs), args)
	}
	for i := range args {
		if !wire.Equal(args[i], f.wantArgs[i]) {
			f.t.Errorf("%s arg %d = %s, want %s", member, i, args[i], f.wantArgs[i])
		}
	}
	return f.reply, f.err
}

func TestStartUnit(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "StartUnit",
		wantArgs:   []wire.Value{wire.Str("ssh.service"), wire.Str("replace")},
		reply:      []wire.Value{wire.ObjectPath("/org/freedesktop/systemd1/job/1")},
	})

	job, err := conn.StartUnit(context.Background(), "ssh.service", JobReplace)
	if err != nil {
		t.Fatalf("StartUnit: unexpected error: %v", err)
	}
	if want := ObjectPath("/org/freedesktop/systemd1/job/1"); job != want {
		t.Errorf("StartUnit = %s, want %s", job, want)
	}
}

func TestKillUnit(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "KillUnit",
		wantArgs:   []wire.Value{wire.Str("ssh.service"), wire.Str("all"), wire.Uint32(9)},
	})

	if err := conn.KillUnit(context.Background(), "ssh.service", KillAll, 9); err != nil {
		t.Fatalf("KillUnit: unexpected error: %v", err)
	}
}

func TestListUnits(t *testing.T) {
	unit := func(name, active string) wire.Value {
		return wire.MakeStruct(
			wire.Str(name),
			wire.Str("desc"),
			wire.Str("loaded"),
			wire.Str(active),
			wire.Str("running"),
			wire.Str(""),
			wire.ObjectPath("/unit/"+name),
			wire.Uint32(0),
			wire.Str(""),
			wire.ObjectPath("/"),
		)
	}
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "ListUnits",
		reply: []wire.Value{wire.MakeArray(
			unit("a.service", "active"),
			unit("b.service", "inactive"),
		)},
	})

	units, err := conn.ListUnits(context.Background())
	if err != nil {
		t.Fatalf("ListUnits: unexpected error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("ListUnits returned %d units, want 2", len(units))
	}
	want := UnitStatus{
		Name:        "a.service",
		Description: "desc",
		LoadState:   "loaded",
		ActiveState: "active",
		SubState:    "running",
		Path:        "/unit/a.service",
		JobPath:     "/",
	}
	if diff := cmp.Diff(units[0], want); diff != "" {
		t.Errorf("units[0] diff (-got+want):\n%s", diff)
	}
	if units[1].Name != "b.service" || units[1].ActiveState != "inactive" {
		t.Errorf("units[1] = %+v", units[1])
	}
}

func TestGetUnitFileState(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "GetUnitFileState",
		wantArgs:   []wire.Value{wire.Str("ssh.service")},
		reply:      []wire.Value{wire.Str("masked-runtime")},
	})

	state, err := conn.GetUnitFileState(context.Background(), "ssh.service")
	if err != nil {
		t.Fatalf("GetUnitFileState: unexpected error: %v", err)
	}
	if state != FileMaskedRuntime {
		t.Errorf("GetUnitFileState = %s, want masked-runtime", state)
	}
}

func TestEnableUnitFiles(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "EnableUnitFiles",
		wantArgs: []wire.Value{
			wire.MakeArray(wire.Str("ssh.service")),
			wire.Bool(false),
			wire.Bool(true),
		},
		reply: []wire.Value{
			wire.Bool(true),
			wire.MakeArray(wire.MakeStruct(
				wire.Str("symlink"),
				wire.Str("/etc/systemd/system/ssh.service"),
				wire.Str("/lib/systemd/system/ssh.service"),
			)),
		},
	})

	changes, err := conn.EnableUnitFiles(context.Background(), []string{"ssh.service"}, false, true)
	if err != nil {
		t.Fatalf("EnableUnitFiles: unexpected error: %v", err)
	}
	if !changes.CarriesInstallInfo {
		t.Error("CarriesInstallInfo = false, want true")
	}
	if len(changes.Changes) != 1 || changes.Changes[0].Action != "symlink" {
		t.Errorf("Changes = %+v", changes.Changes)
	}
}

func TestStartTransientUnit(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "StartTransientUnit",
		wantArgs: []wire.Value{
			wire.Str("run-1.service"),
			wire.Str("fail"),
			wire.MakeArray(wire.MakeStruct(wire.Str("Description"), wire.Str("one-off"))),
			wire.MakeArray(),
		},
		reply: []wire.Value{wire.ObjectPath("/org/freedesktop/systemd1/job/9")},
	})

	job, err := conn.StartTransientUnit(context.Background(), "run-1.service", JobFail,
		[]UnitProperty{{Name: "Description", Value: "one-off"}}, nil)
	if err != nil {
		t.Fatalf("StartTransientUnit: unexpected error: %v", err)
	}
	if want := ObjectPath("/org/freedesktop/systemd1/job/9"); job != want {
		t.Errorf("StartTransientUnit = %s, want %s", job, want)
	}
}

func TestUnsetAndSetEnvironment(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "UnsetAndSetEnvironment",
		wantArgs: []wire.Value{
			wire.MakeArray(wire.Str("OLD")),
			wire.MakeArray(wire.Str("NEW=1")),
		},
	})

	err := conn.UnsetAndSetEnvironment(context.Background(), []string{"OLD"}, []string{"NEW=1"})
	if err != nil {
		t.Fatalf("UnsetAndSetEnvironment: unexpected error: %v", err)
	}
}

func TestCallErrorPropagates(t *testing.T) {
	want := transport.CallError{
		Name:   "org.freedesktop.systemd1.NoSuchUnit",
		Detail: "Unit nope.service not loaded.",
	}
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "GetUnit",
		wantArgs:   []wire.Value{wire.Str("nope.service")},
		err:        want,
	})

	_, err := conn.GetUnit(context.Background(), "nope.service")
	var ce CallError
	if !errors.As(err, &ce) || ce != want {
		t.Errorf("GetUnit error = %v, want %v", err, want)
	}
}

func TestBadReplyReportsMethod(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{
		t:          t,
		wantMember: "GetDefaultTarget",
		reply:      []wire.Value{wire.Uint32(1)},
	})

	_, err := conn.GetDefaultTarget(context.Background())
	if err == nil {
		t.Fatal("GetDefaultTarget accepted a numeric reply")
	}
	if got := err.Error(); got != `decoding GetDefaultTarget reply: expected Str, got Uint32(1)` {
		t.Errorf("error = %q", got)
	}
}

func TestEncodeArgumentError(t *testing.T) {
	conn := NewWithCaller(&fakeCaller{t: t, wantMember: "StartUnit"})

	_, err := conn.StartUnit(context.Background(), "x.service", JobMode(42))
	if err == nil {
		t.Fatal("StartUnit accepted an out-of-range mode")
	}
	if got := err.Error(); got != "encoding StartUnit argument 1: enum index 42 out of range" {
		t.Errorf("error = %q", got)
	}
}
