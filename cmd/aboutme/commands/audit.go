package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/audit"
)

// AuditCmd implements the 'audit' command.
type AuditCmd struct {
	Limit int `short:"n" help:"Number of events to show" default:"20"`
}

func (a *AuditCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	st, err := audit.NewSQLiteStore(cfg.Audit.Database)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	events, err := st.List(context.Background(), a.Limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tEVENT\tOUTCOME\tREMOTE\tREQUEST\tSHA256")
	for _, e := range events {
		digest := e.ContentSHA256
		if len(digest) > 12 {
			digest = digest[:12]
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Type, e.Outcome, e.RemoteAddr, e.RequestID, digest)
	}
	return tw.Flush()
}
