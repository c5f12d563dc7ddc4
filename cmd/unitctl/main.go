// Program unitctl is a minimal systemctl work-alike built on the
// systemd package, mainly useful for poking at the manager's bus API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/kr/pretty"
	"github.com/sysdkit/systemd"
)

var globalArgs struct {
	User bool `flag:"user,Talk to the current user's service manager instead of the system's"`
}

var jobArgs struct {
	Mode string `flag:"mode,default=replace,Job mode: replace, fail, isolate, ignore-dependencies or ignore-requirements"`
}

var killArgs struct {
	Who    string `flag:"who,default=all,Which processes to signal: main, control or all"`
	Signal uint   `flag:"signal,default=15,Signal number to send"`
}

var fileArgs struct {
	Runtime bool `flag:"runtime,Apply the change only until the next reboot"`
	Force   bool `flag:"force,Replace conflicting symlinks"`
}

func connect() (*systemd.Conn, error) {
	if globalArgs.User {
		return systemd.NewSession()
	}
	return systemd.New()
}

func main() {
	root := &command.C{
		Name:     "unitctl",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "list",
				Usage: "list args...",
				Commands: []*command.C{
					{
						Name:  "units",
						Usage: "list units",
						Help:  "List the units currently loaded in memory.",
						Run:   command.Adapt(runListUnits),
					},
					{
						Name:  "jobs",
						Usage: "list jobs",
						Help:  "List the currently queued jobs.",
						Run:   command.Adapt(runListJobs),
					},
					{
						Name:  "unit-files",
						Usage: "list unit-files",
						Help:  "List installed unit files and their enablement states.",
						Run:   command.Adapt(runListUnitFiles),
					},
				},
			},
			unitJobCommand("start", "Start a unit.", (*systemd.Conn).StartUnit),
			unitJobCommand("stop", "Stop a unit.", (*systemd.Conn).StopUnit),
			unitJobCommand("restart", "Restart a unit.", (*systemd.Conn).RestartUnit),
			unitJobCommand("try-restart", "Restart a unit if it is running.", (*systemd.Conn).TryRestartUnit),
			unitJobCommand("reload", "Ask a unit to reload its configuration.", (*systemd.Conn).ReloadUnit),
			unitJobCommand("reload-or-restart", "Reload a unit if it can, restart it otherwise.", (*systemd.Conn).ReloadOrRestartUnit),
			{
				Name:     "kill",
				Usage:    "kill unit",
				Help:     "Send a signal to a unit's processes.",
				SetFlags: command.Flags(flax.MustBind, &killArgs),
				Run:      command.Adapt(runKill),
			},
			{
				Name:  "reset-failed",
				Usage: "reset-failed [unit]",
				Help:  "Clear the failed state of one unit, or of all units.",
				Run:   runResetFailed,
			},
			{
				Name:  "cancel",
				Usage: "cancel job-id",
				Help:  "Cancel a queued job.",
				Run:   command.Adapt(runCancel),
			},
			fileChangeCommand("enable", "Enable unit files.", runEnable),
			fileChangeCommand("disable", "Disable unit files.", runDisable),
			fileChangeCommand("reenable", "Disable and re-enable unit files.", runReenable),
			fileChangeCommand("preset", "Apply the preset policy to unit files.", runPreset),
			fileChangeCommand("link", "Link unit files into the search path.", runLink),
			fileChangeCommand("mask", "Mask unit files.", runMask),
			fileChangeCommand("unmask", "Unmask unit files.", runUnmask),
			{
				Name:  "is-enabled",
				Usage: "is-enabled unit-file",
				Help:  "Print the enablement state of a unit file.",
				Run:   command.Adapt(runIsEnabled),
			},
			{
				Name:  "default-target",
				Usage: "default-target [target]",
				Help:  "Print the default boot target, or change it.",
				Run:   runDefaultTarget,
			},
			{
				Name:  "env",
				Usage: "env args...",
				Commands: []*command.C{
					{
						Name:  "set",
						Usage: "env set KEY=value...",
						Help:  "Add assignments to the manager's environment block.",
						Run:   runEnvSet,
					},
					{
						Name:  "unset",
						Usage: "env unset KEY...",
						Help:  "Remove variables from the manager's environment block.",
						Run:   runEnvUnset,
					},
				},
			},
			{
				Name:  "daemon-reload",
				Usage: "daemon-reload",
				Help:  "Reload the manager's configuration.",
				Run:   command.Adapt(runDaemonReload),
			},
			{
				Name:  "daemon-reexec",
				Usage: "daemon-reexec",
				Help:  "Re-execute the manager.",
				Run:   command.Adapt(runDaemonReexec),
			},
			{
				Name:  "watch",
				Usage: "watch",
				Help:  "Print the manager's change signals as they arrive.",
				Run:   command.Adapt(runWatch),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

// unitJobCommand builds a command that runs one job-queueing unit
// operation and prints the resulting job path.
func unitJobCommand(name, help string, op func(*systemd.Conn, context.Context, string, systemd.JobMode) (systemd.ObjectPath, error)) *command.C {
	return &command.C{
		Name:     name,
		Usage:    name + " unit",
		Help:     help,
		SetFlags: command.Flags(flax.MustBind, &jobArgs),
		Run: command.Adapt(func(env *command.Env, unit string) error {
			mode, err := systemd.ParseJobMode(jobArgs.Mode)
			if err != nil {
				return err
			}
			conn, err := connect()
			if err != nil {
				return fmt.Errorf("connecting to manager: %w", err)
			}
			defer conn.Close()

			job, err := op(conn, env.Context(), unit, mode)
			if err != nil {
				return err
			}
			fmt.Println(job)
			return nil
		}),
	}
}

// fileChangeCommand builds a command over one unit file operation that
// reports filesystem changes.
func fileChangeCommand(name, help string, run func(*command.Env) error) *command.C {
	return &command.C{
		Name:     name,
		Usage:    name + " unit-file...",
		Help:     help,
		SetFlags: command.Flags(flax.MustBind, &fileArgs),
		Run:      run,
	}
}

func runListUnits(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnits(env.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tLOAD\tACTIVE\tSUB\tDESCRIPTION")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			u.Name, u.LoadState, u.ActiveState, u.SubState, u.Description)
	}
	return tw.Flush()
}

func runListJobs(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	jobs, err := conn.ListJobs(env.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tUNIT\tTYPE\tSTATE")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", j.ID, j.Name, j.Type, j.State)
	}
	return tw.Flush()
}

func runListUnitFiles(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	files, err := conn.ListUnitFiles(env.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT FILE\tSTATE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.State)
	}
	return tw.Flush()
}

func runKill(env *command.Env, unit string) error {
	who, err := systemd.ParseKillWho(killArgs.Who)
	if err != nil {
		return err
	}
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.KillUnit(env.Context(), unit, who, uint32(killArgs.Signal))
}

func runResetFailed(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	switch len(env.Args) {
	case 0:
		return conn.ResetFailed(env.Context())
	case 1:
		return conn.ResetFailedUnit(env.Context(), env.Args[0])
	default:
		return env.Usagef("reset-failed takes at most one unit")
	}
}

func runCancel(env *command.Env, id string) error {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return env.Usagef("invalid job id %q", id)
	}
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.CancelJob(env.Context(), uint32(n))
}

func runEnable(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.EnableUnitFiles(ctx, files, fileArgs.Runtime, fileArgs.Force)
		if err != nil {
			return err
		}
		if !changes.CarriesInstallInfo {
			fmt.Println("unit files carry no install information")
		}
		printChanges(changes.Changes)
		return nil
	})
}

func runDisable(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.DisableUnitFiles(ctx, files, fileArgs.Runtime)
		if err != nil {
			return err
		}
		printChanges(changes)
		return nil
	})
}

func runReenable(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.ReenableUnitFiles(ctx, files, fileArgs.Runtime, fileArgs.Force)
		if err != nil {
			return err
		}
		printChanges(changes.Changes)
		return nil
	})
}

func runPreset(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.PresetUnitFiles(ctx, files, fileArgs.Runtime, fileArgs.Force)
		if err != nil {
			return err
		}
		printChanges(changes.Changes)
		return nil
	})
}

func runLink(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.LinkUnitFiles(ctx, files, fileArgs.Runtime, fileArgs.Force)
		if err != nil {
			return err
		}
		printChanges(changes)
		return nil
	})
}

func runMask(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.MaskUnitFiles(ctx, files, fileArgs.Runtime, fileArgs.Force)
		if err != nil {
			return err
		}
		printChanges(changes)
		return nil
	})
}

func runUnmask(env *command.Env) error {
	return withFiles(env, func(ctx context.Context, conn *systemd.Conn, files []string) error {
		changes, err := conn.UnmaskUnitFiles(ctx, files, fileArgs.Runtime)
		if err != nil {
			return err
		}
		printChanges(changes)
		return nil
	})
}

func withFiles(env *command.Env, f func(context.Context, *systemd.Conn, []string) error) error {
	if len(env.Args) == 0 {
		return env.Usagef("at least one unit file is required")
	}
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return f(env.Context(), conn, env.Args)
}

func printChanges(changes []systemd.UnitFileChange) {
	for _, c := range changes {
		if c.Destination == "" {
			fmt.Printf("%s %s\n", c.Action, c.Link)
		} else {
			fmt.Printf("%s %s -> %s\n", c.Action, c.Link, c.Destination)
		}
	}
}

func runIsEnabled(env *command.Env, file string) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	state, err := conn.GetUnitFileState(env.Context(), file)
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}

func runDefaultTarget(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	switch len(env.Args) {
	case 0:
		target, err := conn.GetDefaultTarget(env.Context())
		if err != nil {
			return err
		}
		fmt.Println(target)
		return nil
	case 1:
		changes, err := conn.SetDefaultTarget(env.Context(), env.Args[0])
		if err != nil {
			return err
		}
		printChanges(changes)
		return nil
	default:
		return env.Usagef("default-target takes at most one target")
	}
}

func runEnvSet(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("at least one KEY=value assignment is required")
	}
	for _, a := range env.Args {
		if !strings.Contains(a, "=") {
			return env.Usagef("%q is not a KEY=value assignment", a)
		}
	}
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.SetEnvironment(env.Context(), env.Args)
}

func runEnvUnset(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("at least one variable name is required")
	}
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.UnsetEnvironment(env.Context(), env.Args)
}

func runDaemonReload(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.Reload(env.Context())
}

func runDaemonReexec(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	return conn.Reexecute(env.Context())
}

func runWatch(env *command.Env) error {
	conn, err := connect()
	if err != nil {
		return fmt.Errorf("connecting to manager: %w", err)
	}
	defer conn.Close()

	w, err := conn.WatchManager(env.Context())
	if err != nil {
		return fmt.Errorf("subscribing to manager signals: %w", err)
	}
	defer w.Close()

	fmt.Println("Watching for manager signals...")
	for {
		select {
		case <-env.Context().Done():
			return nil
		case sig, ok := <-w.Chan():
			if !ok {
				return nil
			}
			fmt.Printf("%s.%s on %s:\n  %# v\n\n",
				sig.Interface, sig.Member, sig.Path, pretty.Formatter(sig.Body))
		}
	}
}
