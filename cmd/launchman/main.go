package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/launchman/cmd/launchman/commands"
	"git.home.luguber.info/inful/launchman/internal/errors"
	"git.home.luguber.info/inful/launchman/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("launchman"),
		kong.Description("Generate launchd service descriptors and drive launchctl."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()})
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
