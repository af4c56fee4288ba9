package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/launchman/internal/launchctl"
	"git.home.luguber.info/inful/launchman/internal/launchd"
)

// UninstallCmd implements the 'uninstall' command: unload the descriptor and
// remove its file. A descriptor file that is already gone is not an error.
type UninstallCmd struct {
	Label     string `arg:"" help:"Service label (reverse-DNS bundle identifier)"`
	PlistPath string `help:"Descriptor path if not the default" type:"path"`
}

func (c *UninstallCmd) Run(_ *Global) error {
	ctl, err := launchctl.NewTool()
	if err != nil {
		return err
	}

	// The entry point is irrelevant for uninstalling; only the label and the
	// descriptor path matter.
	svc, err := launchd.NewService(c.Label, launchd.NewSchedule(), launchd.ServiceOptions{
		Arguments: []string{"/usr/bin/true"},
		PlistPath: c.PlistPath,
		Fs:        afero.NewOsFs(),
		Control:   ctl,
	})
	if err != nil {
		return err
	}

	if err := svc.Uninstall(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Uninstalled %s\n", c.Label)
	return nil
}
