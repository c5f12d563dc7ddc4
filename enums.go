package systemd

import (
	"fmt"
	"slices"

	"github.com/sysdkit/systemd/serial"
)

// JobMode selects how a queued job interacts with jobs already queued
// for the same units.
type JobMode int

const (
	// JobReplace replaces conflicting queued jobs.
	JobReplace JobMode = iota
	// JobFail fails the request if it conflicts with a queued job.
	JobFail
	// JobIsolate stops all units not wanted by the started one.
	JobIsolate
	// JobIgnoreDependencies queues only the requested job.
	JobIgnoreDependencies
	// JobIgnoreRequirements queues the job and its wants, ignoring
	// requirement dependencies.
	JobIgnoreRequirements
)

var jobModeNames = []string{
	"replace", "fail", "isolate", "ignore-dependencies", "ignore-requirements",
}

func (m JobMode) String() string {
	if m < 0 || int(m) >= len(jobModeNames) {
		return fmt.Sprintf("JobMode(%d)", int(m))
	}
	return jobModeNames[m]
}

func (m JobMode) MarshalDBus(e *serial.Encoder) error {
	return encodeEnum(e, int(m), jobModeNames)
}

func (m *JobMode) UnmarshalDBus(d *serial.Decoder) error {
	i, err := d.Variant(jobModeNames)
	if err != nil {
		return err
	}
	*m = JobMode(i)
	return nil
}

// ParseJobMode maps a mode name like "replace" back to its JobMode.
func ParseJobMode(s string) (JobMode, error) {
	if i := slices.Index(jobModeNames, s); i >= 0 {
		return JobMode(i), nil
	}
	return 0, fmt.Errorf("unknown job mode %q", s)
}

// KillWho selects which of a unit's processes a kill signal reaches.
type KillWho int

const (
	// KillMain signals only the unit's main process.
	KillMain KillWho = iota
	// KillControl signals only the unit's control process.
	KillControl
	// KillAll signals every process of the unit.
	KillAll
)

var killWhoNames = []string{"main", "control", "all"}

func (w KillWho) String() string {
	if w < 0 || int(w) >= len(killWhoNames) {
		return fmt.Sprintf("KillWho(%d)", int(w))
	}
	return killWhoNames[w]
}

func (w KillWho) MarshalDBus(e *serial.Encoder) error {
	return encodeEnum(e, int(w), killWhoNames)
}

func (w *KillWho) UnmarshalDBus(d *serial.Decoder) error {
	i, err := d.Variant(killWhoNames)
	if err != nil {
		return err
	}
	*w = KillWho(i)
	return nil
}

// ParseKillWho maps a name like "main" back to its KillWho.
func ParseKillWho(s string) (KillWho, error) {
	if i := slices.Index(killWhoNames, s); i >= 0 {
		return KillWho(i), nil
	}
	return 0, fmt.Errorf("unknown kill target %q", s)
}

// UnitFileState is the enablement state of a unit file on disk.
type UnitFileState int

const (
	// FileEnabled means the unit file is permanently enabled.
	FileEnabled UnitFileState = iota
	// FileEnabledRuntime means the unit file is enabled for this boot.
	FileEnabledRuntime
	// FileLinked means the unit file is linked into the search path.
	FileLinked
	// FileLinkedRuntime means the link lasts only for this boot.
	FileLinkedRuntime
	// FileMasked means the unit file is masked permanently.
	FileMasked
	// FileMaskedRuntime means the mask lasts only for this boot.
	FileMaskedRuntime
	// FileStatic means the unit file is neither enabled nor disabled.
	FileStatic
	// FileDisabled means the unit file is not enabled.
	FileDisabled
	// FileInvalid means the unit file could not be parsed.
	FileInvalid
)

var unitFileStateNames = []string{
	"enabled", "enabled-runtime", "linked", "linked-runtime",
	"masked", "masked-runtime", "static", "disabled", "invalid",
}

func (s UnitFileState) String() string {
	if s < 0 || int(s) >= len(unitFileStateNames) {
		return fmt.Sprintf("UnitFileState(%d)", int(s))
	}
	return unitFileStateNames[s]
}

func (s UnitFileState) MarshalDBus(e *serial.Encoder) error {
	return encodeEnum(e, int(s), unitFileStateNames)
}

func (s *UnitFileState) UnmarshalDBus(d *serial.Decoder) error {
	i, err := d.Variant(unitFileStateNames)
	if err != nil {
		return err
	}
	*s = UnitFileState(i)
	return nil
}

// encodeEnum emits the variant tag for index i of an enum whose
// variant names are already in wire form.
func encodeEnum(e *serial.Encoder, i int, names []string) error {
	if i < 0 || i >= len(names) {
		return serial.InternalEncodeError{Message: fmt.Sprintf("enum index %d out of range", i)}
	}
	e.Variant(names[i])
	return e.Err()
}
