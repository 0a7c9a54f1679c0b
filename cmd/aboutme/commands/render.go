package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/presentation"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Output string `short:"o" help:"Write HTML to this file instead of stdout"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := openStore(cfg).Get(ctx)
	view := presentation.Build(presentation.FetchResult{Document: raw, Err: err})
	if view.State != presentation.StateReady {
		if err == nil {
			err = derrors.ValidationError("document is not a JSON object").Build()
		}
		return err
	}

	var buf bytes.Buffer
	if err := presentation.Render(&buf, view); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if r.Output == "" {
		_, err = g.out().Write(buf.Bytes())
		return err
	}
	// #nosec G306 -- rendered page is public
	if err := os.WriteFile(r.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.Output, err)
	}
	_, _ = fmt.Fprintf(g.out(), "Rendered %s\n", r.Output)
	return nil
}
