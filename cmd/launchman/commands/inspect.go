package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"howett.net/plist"
)

// InspectCmd implements the 'inspect' command: parse a descriptor file
// (XML or binary) and print it as indented JSON.
type InspectCmd struct {
	Path string `arg:"" help:"Path to descriptor file" type:"path"`
}

func (c *InspectCmd) Run(_ *Global) error {
	return RunInspect(afero.NewOsFs(), c.Path, nil)
}

func RunInspect(fsys afero.Fs, path string, out io.Writer) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	var desc map[string]any
	if _, err := plist.Unmarshal(data, &desc); err != nil {
		return fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	rendered, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	if out == nil {
		fmt.Println(string(rendered))
		return nil
	}
	_, err = fmt.Fprintln(out, string(rendered))
	return err
}
