package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"howett.net/plist"

	"git.home.luguber.info/inful/launchman/internal/launchd"
	"git.home.luguber.info/inful/launchman/internal/pathutil"
)

// ScaffoldCmd implements the 'scaffold' command: build a default descriptor
// and write it, without touching launchctl.
type ScaffoldCmd struct {
	Label   string   `arg:"" help:"Service label (reverse-DNS bundle identifier)"`
	Command []string `arg:"" optional:"" passthrough:"" help:"Command and its arguments"`
	Output  string   `short:"o" default:"./launchd.plist" help:"Output descriptor path" type:"path"`
}

func (c *ScaffoldCmd) Run(_ *Global) error {
	return RunScaffold(afero.NewOsFs(), c.Label, c.Command, c.Output)
}

func RunScaffold(fsys afero.Fs, label string, command []string, output string) error {
	svc, err := launchd.NewService(label, launchd.NewSchedule(), launchd.ServiceOptions{
		Arguments: command,
		PlistPath: output,
		Fs:        fsys,
	})
	if err != nil {
		return err
	}
	desc, err := svc.Descriptor()
	if err != nil {
		return err
	}
	data, err := plist.MarshalIndent(desc, plist.XMLFormat, "\t")
	if err != nil {
		return err
	}
	if _, err := pathutil.Ensure(fsys, filepath.Dir(output), pathutil.Options{
		Kind:          pathutil.KindDirectory,
		AllowExisting: true,
	}); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, output, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote descriptor for %s to %s\n", label, output)
	return nil
}
