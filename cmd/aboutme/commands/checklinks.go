package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
)

// CheckLinksCmd implements the 'check-links' command.
type CheckLinksCmd struct{}

func (c *CheckLinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	checker := linkcheck.NewChecker(
		linkcheck.WithTimeout(cfg.LinkCheck.TimeoutDuration()),
		linkcheck.WithMaxConcurrent(cfg.LinkCheck.MaxConcurrent),
	)
	monitor := linkcheck.NewMonitor(openStore(cfg), checker, nil, nil)

	report, err := monitor.Run(context.Background())
	if err != nil {
		return err
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Checked %d links in %s\n", report.Checked, report.Duration.Round(time.Millisecond))
	if len(report.Broken) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STATUS\tURL\tFIELD\tERROR")
	for _, b := range report.Broken {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.Status, b.URL, b.Source, b.Error)
	}
	_ = tw.Flush()
	return derrors.ValidationError(fmt.Sprintf("%d broken links", len(report.Broken))).Build()
}
