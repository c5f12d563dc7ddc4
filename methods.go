package systemd

import (
	"context"

	"github.com/sysdkit/systemd/serial"
)

// GetUnit returns the object path of the named loaded unit.
func (c *Conn) GetUnit(ctx context.Context, name string) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "GetUnit", name)
}

// GetUnitByPID returns the jobs of the unit a process belongs to.
func (c *Conn) GetUnitByPID(ctx context.Context, pid uint32) ([]Job, error) {
	return listCall[Job](ctx, c, "GetUnitByPID", pid)
}

// LoadUnit loads the named unit if necessary and returns its object
// path.
func (c *Conn) LoadUnit(ctx context.Context, name string) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "LoadUnit", name)
}

// StartUnit enqueues a start job for the named unit and returns the
// job's object path.
func (c *Conn) StartUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "StartUnit", name, mode)
}

// StartUnitReplace enqueues a start job for newUnit, replacing the
// queued jobs of oldUnit.
func (c *Conn) StartUnitReplace(ctx context.Context, oldUnit, newUnit string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "StartUnitReplace", oldUnit, newUnit, mode)
}

// StopUnit enqueues a stop job for the named unit and returns the
// job's object path.
func (c *Conn) StopUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "StopUnit", name, mode)
}

// ReloadUnit asks the named unit to reload its configuration.
func (c *Conn) ReloadUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "ReloadUnit", name, mode)
}

// RestartUnit enqueues a restart job for the named unit.
func (c *Conn) RestartUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "RestartUnit", name, mode)
}

// TryRestartUnit restarts the named unit only if it is running.
func (c *Conn) TryRestartUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "TryRestartUnit", name, mode)
}

// ReloadOrRestartUnit reloads the named unit if it supports reloading,
// and restarts it otherwise.
func (c *Conn) ReloadOrRestartUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "ReloadOrRestartUnit", name, mode)
}

// ReloadOrTryRestartUnit is ReloadOrRestartUnit, except a unit that
// does not support reloading is restarted only if it is running.
func (c *Conn) ReloadOrTryRestartUnit(ctx context.Context, name string, mode JobMode) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "ReloadOrTryRestartUnit", name, mode)
}

// KillUnit sends signal to the selected processes of the named unit.
func (c *Conn) KillUnit(ctx context.Context, name string, who KillWho, signal uint32) error {
	return c.send(ctx, "KillUnit", name, who, signal)
}

// ResetFailedUnit clears the "failed" state of the named unit.
func (c *Conn) ResetFailedUnit(ctx context.Context, name string) error {
	return c.send(ctx, "ResetFailedUnit", name)
}

// GetJob returns the object path of the job with the given id.
func (c *Conn) GetJob(ctx context.Context, id uint32) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "GetJob", id)
}

// CancelJob cancels the job with the given id.
func (c *Conn) CancelJob(ctx context.Context, id uint32) error {
	return c.send(ctx, "CancelJob", id)
}

// ClearJobs drops every queued job.
func (c *Conn) ClearJobs(ctx context.Context) error {
	return c.send(ctx, "ClearJobs")
}

// ResetFailed clears the "failed" state of every unit.
func (c *Conn) ResetFailed(ctx context.Context) error {
	return c.send(ctx, "ResetFailed")
}

// ListUnits returns the status of every unit the manager currently has
// in memory.
func (c *Conn) ListUnits(ctx context.Context) ([]UnitStatus, error) {
	return listCall[UnitStatus](ctx, c, "ListUnits")
}

// ListJobs returns every currently queued job.
func (c *Conn) ListJobs(ctx context.Context) ([]Job, error) {
	return listCall[Job](ctx, c, "ListJobs")
}

// Subscribe enables broadcast of the manager's change signals to this
// connection.
func (c *Conn) Subscribe(ctx context.Context) error {
	return c.send(ctx, "Subscribe")
}

// Unsubscribe reverses Subscribe.
func (c *Conn) Unsubscribe(ctx context.Context) error {
	return c.send(ctx, "Unsubscribe")
}

// CreateSnapshot saves the current set of running units under the
// given snapshot name.
func (c *Conn) CreateSnapshot(ctx context.Context, name string, cleanup bool) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "CreateSnapshot", name, cleanup)
}

// RemoveSnapshot removes the named snapshot.
func (c *Conn) RemoveSnapshot(ctx context.Context, name string) error {
	return c.send(ctx, "RemoveSnapshot", name)
}

// Reload asks the manager to reload its configuration.
func (c *Conn) Reload(ctx context.Context) error {
	return c.send(ctx, "Reload")
}

// Reexecute asks the manager to serialize its state and re-execute
// itself.
func (c *Conn) Reexecute(ctx context.Context) error {
	return c.send(ctx, "Reexecute")
}

// Reboot reboots the machine.
func (c *Conn) Reboot(ctx context.Context) error {
	return c.send(ctx, "Reboot")
}

// PowerOff powers the machine down.
func (c *Conn) PowerOff(ctx context.Context) error {
	return c.send(ctx, "PowerOff")
}

// Halt halts the machine.
func (c *Conn) Halt(ctx context.Context) error {
	return c.send(ctx, "Halt")
}

// KExec reboots the machine via kexec.
func (c *Conn) KExec(ctx context.Context) error {
	return c.send(ctx, "KExec")
}

// SwitchRoot switches to a new root directory and executes a new init
// under it.
func (c *Conn) SwitchRoot(ctx context.Context, newRoot, init string) error {
	return c.send(ctx, "SwitchRoot", newRoot, init)
}

// SetEnvironment adds assignments of the form "KEY=value" to the
// manager's environment block.
func (c *Conn) SetEnvironment(ctx context.Context, assignments []string) error {
	return c.send(ctx, "SetEnvironment", assignments)
}

// UnsetEnvironment removes variables from the manager's environment
// block. Entries may be plain names or full "KEY=value" assignments.
func (c *Conn) UnsetEnvironment(ctx context.Context, names []string) error {
	return c.send(ctx, "UnsetEnvironment", names)
}

// UnsetAndSetEnvironment removes and adds environment entries in a
// single atomic operation.
func (c *Conn) UnsetAndSetEnvironment(ctx context.Context, unset, set []string) error {
	return c.send(ctx, "UnsetAndSetEnvironment", unset, set)
}

// ListUnitFiles returns every unit file installed on disk together
// with its enablement state.
func (c *Conn) ListUnitFiles(ctx context.Context) ([]UnitFile, error) {
	return listCall[UnitFile](ctx, c, "ListUnitFiles")
}

// GetUnitFileState returns the enablement state of the named unit
// file.
func (c *Conn) GetUnitFileState(ctx context.Context, file string) (UnitFileState, error) {
	return call[UnitFileState](ctx, c, "GetUnitFileState", file)
}

// EnableUnitFiles enables the named unit files. With runtime set the
// symlinks last only until the next reboot, and with force set
// existing conflicting symlinks are replaced.
func (c *Conn) EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) (UnitFileChanges, error) {
	return call[UnitFileChanges](ctx, c, "EnableUnitFiles", files, runtime, force)
}

// DisableUnitFiles disables the named unit files.
func (c *Conn) DisableUnitFiles(ctx context.Context, files []string, runtime bool) ([]UnitFileChange, error) {
	return listCall[UnitFileChange](ctx, c, "DisableUnitFiles", files, runtime)
}

// ReenableUnitFiles disables and re-enables the named unit files,
// applying any changed [Install] configuration.
func (c *Conn) ReenableUnitFiles(ctx context.Context, files []string, runtime, force bool) (UnitFileChanges, error) {
	return call[UnitFileChanges](ctx, c, "ReenableUnitFiles", files, runtime, force)
}

// LinkUnitFiles links unit files located outside the search path into
// it.
func (c *Conn) LinkUnitFiles(ctx context.Context, files []string, runtime, force bool) ([]UnitFileChange, error) {
	return listCall[UnitFileChange](ctx, c, "LinkUnitFiles", files, runtime, force)
}

// PresetUnitFiles enables or disables the named unit files according
// to the preset policy.
func (c *Conn) PresetUnitFiles(ctx context.Context, files []string, runtime, force bool) (UnitFileChanges, error) {
	return call[UnitFileChanges](ctx, c, "PresetUnitFiles", files, runtime, force)
}

// MaskUnitFiles masks the named unit files so they cannot be started.
func (c *Conn) MaskUnitFiles(ctx context.Context, files []string, runtime, force bool) ([]UnitFileChange, error) {
	return listCall[UnitFileChange](ctx, c, "MaskUnitFiles", files, runtime, force)
}

// UnmaskUnitFiles reverses MaskUnitFiles.
func (c *Conn) UnmaskUnitFiles(ctx context.Context, files []string, runtime bool) ([]UnitFileChange, error) {
	return listCall[UnitFileChange](ctx, c, "UnmaskUnitFiles", files, runtime)
}

// SetDefaultTarget changes the default target booted into.
func (c *Conn) SetDefaultTarget(ctx context.Context, name string) ([]UnitFileChange, error) {
	return listCall[UnitFileChange](ctx, c, "SetDefaultTarget", name)
}

// GetDefaultTarget returns the name of the default target.
func (c *Conn) GetDefaultTarget(ctx context.Context) (string, error) {
	return call[string](ctx, c, "GetDefaultTarget")
}

// SetUnitProperties changes properties of the named unit at runtime.
// With runtime set the changes last only until the next reboot.
func (c *Conn) SetUnitProperties(ctx context.Context, name string, runtime bool, props []UnitProperty) error {
	return c.send(ctx, "SetUnitProperties", name, runtime, serial.List[UnitProperty](props))
}

// StartTransientUnit creates and starts a transient unit that exists
// only for this boot, with the given properties. aux carries
// properties for further transient units created as a side effect.
func (c *Conn) StartTransientUnit(ctx context.Context, name string, mode JobMode, props []UnitProperty, aux []UnitAux) (ObjectPath, error) {
	return call[ObjectPath](ctx, c, "StartTransientUnit", name, mode,
		serial.List[UnitProperty](props), serial.List[UnitAux](aux))
}
