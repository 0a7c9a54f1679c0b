package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/aboutme/internal/config"
	"git.home.luguber.info/inful/aboutme/internal/document"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file and document"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	out := g.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}

	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	seed, err := document.Encode(document.Seed())
	if err != nil {
		return err
	}
	written, err := openStore(cfg).Seed(context.Background(), seed, i.Force)
	if err != nil {
		return err
	}
	if written {
		_, _ = fmt.Fprintf(out, "Seeded document at %s\n", cfg.Storage.DocumentPath)
	} else {
		_, _ = fmt.Fprintf(out, "Keeping existing document at %s\n", cfg.Storage.DocumentPath)
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
