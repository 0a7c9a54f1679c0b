package commands

import (
	"context"
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/client"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	URL string `help:"Fetch from a running server instead of the local file" env:"ABOUTME_URL"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		raw json.RawMessage
		err error
	)
	if s.URL != "" {
		raw, err = client.New(s.URL, nil).Fetch(ctx)
	} else {
		cfg, lerr := loadConfig(g, root)
		if lerr != nil {
			return lerr
		}
		raw, err = openStore(cfg).Get(ctx)
	}
	if err != nil {
		return err
	}
	pretty, err := store.Normalize(raw)
	if err != nil {
		return err
	}
	_, err = g.out().Write(pretty)
	return err
}
