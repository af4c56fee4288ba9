package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/launchman/internal/launchctl"
	"git.home.luguber.info/inful/launchman/internal/launchd"
)

// InstallCmd implements the 'install' command: build the descriptor from
// flags (and optionally a schedule file), write it and load it.
type InstallCmd struct {
	Label   string   `arg:"" help:"Service label (reverse-DNS bundle identifier)"`
	Command []string `arg:"" optional:"" passthrough:"" help:"ProgramArguments: command and its args"`

	Program        string `help:"Program path used as the entry point"`
	PlistPath      string `help:"Explicit descriptor path (default: ~/Library/LaunchAgents/<label>.plist)" type:"path"`
	LogDir         string `help:"Directory for .out/.err log files" env:"LAUNCHMAN_LOG_DIR"`
	LogName        string `help:"Basename for log files (default: label)"`
	StdoutLog      string `help:"Explicit stdout log path" type:"path"`
	StderrLog      string `help:"Explicit stderr log path" type:"path"`
	CreateLogFiles bool   `help:"Create log files if missing"`

	ScheduleFlags
}

func (c *InstallCmd) Run(_ *Global) error {
	fsys := afero.NewOsFs()

	// Resolve the control tool up front so a missing binary fails before any
	// file is written.
	ctl, err := launchctl.NewTool()
	if err != nil {
		return err
	}

	sched, err := c.ScheduleFlags.BuildSchedule(fsys)
	if err != nil {
		return err
	}

	svc, err := launchd.NewService(c.Label, sched, launchd.ServiceOptions{
		Program:        c.Program,
		Arguments:      c.Command,
		PlistPath:      c.PlistPath,
		LogDir:         c.LogDir,
		LogName:        c.LogName,
		StdoutLog:      c.StdoutLog,
		StderrLog:      c.StderrLog,
		CreateLogFiles: c.CreateLogFiles,
		Fs:             fsys,
		Control:        ctl,
	})
	if err != nil {
		return err
	}

	if err := svc.Install(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Installed %s (%s)\n", c.Label, svc.PlistPath)
	return nil
}
