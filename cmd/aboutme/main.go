package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/aboutme/cmd/aboutme/commands"
	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("aboutme"),
		kong.Description("Configuration-driven portfolio site service"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	if err != nil {
		adapter := derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		code := adapter.Report(os.Stderr, err)
		if hint := commands.Hint(err); hint != "" {
			_, _ = fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(code)
	}
}
