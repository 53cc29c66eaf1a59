package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/booksite/cmd/booksite/commands"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("booksite"),
		kong.Description("Build, check and review the Python tutorial site configuration."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	global := &commands.Global{Out: os.Stdout}
	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
