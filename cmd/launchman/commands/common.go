package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/launchman/internal/launchd"
	"git.home.luguber.info/inful/launchman/internal/schedfile"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Scaffold  ScaffoldCmd  `cmd:"" help:"Write a minimal descriptor without loading it"`
	Inspect   InspectCmd   `cmd:"" help:"Print a descriptor file as readable JSON"`
	Install   InstallCmd   `cmd:"" help:"Build the descriptor, write it and load it via launchctl"`
	Uninstall UninstallCmd `cmd:"" help:"Unload the descriptor via launchctl and remove it"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ScheduleFlags is the flag surface shared by commands that build a schedule.
// The schedule file covers what flags cannot express (sockets, launch events,
// mach services, keep-alive maps).
type ScheduleFlags struct {
	RunAtLoad        bool     `help:"Set RunAtLoad=true"`
	KeepAlive        bool     `help:"Set KeepAlive=true"`
	StartInterval    int      `help:"Set StartInterval (seconds)"`
	Cron             []string `help:"Add a cron expression, e.g. \"0 6 * * *\"" placeholder:"EXPR"`
	At               []string `help:"Add a fixed time (24h), can repeat" placeholder:"HH:MM"`
	Suppress         []string `help:"Add a suppression window, e.g. \"23:00-06:00\"" placeholder:"HH:MM-HH:MM"`
	Watch            []string `help:"Add a WatchPaths entry" placeholder:"PATH"`
	Queue            []string `help:"Add a QueueDirectories entry" placeholder:"PATH"`
	StartOnMount     bool     `help:"Enable StartOnMount"`
	ExitTimeout      *int     `help:"ExitTimeout seconds"`
	ThrottleInterval *int     `help:"ThrottleInterval seconds"`
	Schedule         string   `help:"Schedule file (YAML or JSON) with the full trigger set" type:"path"`
}

// BuildSchedule materializes the flag set (and the optional schedule file)
// into a validated schedule. Flags apply on top of the file.
func (f *ScheduleFlags) BuildSchedule(fsys afero.Fs) (*launchd.Schedule, error) {
	sched := launchd.NewSchedule()
	if f.Schedule != "" {
		loaded, err := schedfile.Load(fsys, f.Schedule)
		if err != nil {
			return nil, err
		}
		sched = loaded
	}

	if f.RunAtLoad {
		sched.Behavior.RunAtLoad = launchd.Bool(true)
	}
	if f.KeepAlive {
		sched.Behavior.KeepAlive.Flag = launchd.Bool(true)
	}
	if f.StartInterval != 0 {
		if err := sched.Time.SetStartInterval(f.StartInterval); err != nil {
			return nil, err
		}
	}
	for _, expr := range f.Cron {
		if err := sched.AddCron(expr); err != nil {
			return nil, err
		}
	}
	for _, clock := range f.At {
		hour, minute, err := launchd.ParseClock(clock)
		if err != nil {
			return nil, err
		}
		if err := sched.AddFixedTime(hour, minute); err != nil {
			return nil, err
		}
	}
	for _, window := range f.Suppress {
		if err := sched.AddSuppressionWindow(window); err != nil {
			return nil, err
		}
	}
	for _, path := range f.Watch {
		sched.AddWatchPath(path)
	}
	for _, path := range f.Queue {
		sched.AddQueueDirectory(path)
	}
	if f.StartOnMount {
		sched.FS.EnableStartOnMount()
	}
	if f.ExitTimeout != nil {
		if err := sched.SetExitTimeout(*f.ExitTimeout); err != nil {
			return nil, err
		}
	}
	if f.ThrottleInterval != nil {
		if err := sched.SetThrottleInterval(*f.ThrottleInterval); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
