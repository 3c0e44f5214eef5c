package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/chloroplast/cmd/chloroplast/commands"
	"git.home.luguber.info/inful/chloroplast/internal/config"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("chloroplast"),
		kong.Description("Build static sites from Markdown content areas."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version.String(),
			"config_file": config.DefaultFileName,
		},
	)

	err := parser.Run(cli)
	foundation.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
