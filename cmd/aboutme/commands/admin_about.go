package commands

import (
	"fmt"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/editbuffer"
)

// AdminSetAboutCmd implements 'admin set-about'. Unset flags keep their value.
type AdminSetAboutCmd struct {
	AdminConn `embed:""`

	Title       *string `help:"Section title"`
	Description *string `help:"Section text (Markdown)"`
}

func (s *AdminSetAboutCmd) Run(g *Global, _ *CLI) error {
	err := s.edit(func(b *editbuffer.Buffer) error {
		if s.Title != nil {
			b.SetAboutTitle(*s.Title)
		}
		if s.Description != nil {
			b.SetAboutDescription(*s.Description)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.out(), "about section updated")
	return nil
}

// AdminRemoveSkillCmd implements 'admin remove-skill'.
type AdminRemoveSkillCmd struct {
	AdminConn `embed:""`

	Index int `arg:"" help:"Position of the skill"`
}

func (s *AdminRemoveSkillCmd) Run(g *Global, _ *CLI) error {
	if err := s.edit(func(b *editbuffer.Buffer) error { return b.RemoveSkill(s.Index) }); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "removed skill %d\n", s.Index)
	return nil
}

// AdminAboutHighlightCmd groups the about highlight edits.
type AdminAboutHighlightCmd struct {
	Add    AdminAboutHighlightAddCmd    `cmd:"" help:"Append a highlight card"`
	Set    AdminAboutHighlightSetCmd    `cmd:"" help:"Change a highlight card"`
	Remove AdminAboutHighlightRemoveCmd `cmd:"" help:"Remove a highlight card"`
}

// AdminAboutHighlightAddCmd implements 'admin about-highlight add'.
type AdminAboutHighlightAddCmd struct {
	AdminConn `embed:""`

	Title       string `arg:"" help:"Card title"`
	Description string `help:"Card text"`
	Icon        string `help:"Icon key (brain, code, trending-up)" default:"code"`
}

func (a *AdminAboutHighlightAddCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		b.AddAboutHighlight(document.Highlight{Title: a.Title, Description: a.Description, Icon: a.Icon})
		return nil
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "added highlight %q\n", a.Title)
	return nil
}

// AdminAboutHighlightSetCmd implements 'admin about-highlight set'.
type AdminAboutHighlightSetCmd struct {
	AdminConn `embed:""`

	Index       int     `arg:"" help:"Position of the card"`
	Title       *string `help:"Card title"`
	Description *string `help:"Card text"`
	Icon        *string `help:"Icon key"`
}

func (a *AdminAboutHighlightSetCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		return b.UpdateAboutHighlight(a.Index, func(h *document.Highlight) {
			setIf(&h.Title, a.Title)
			setIf(&h.Description, a.Description)
			setIf(&h.Icon, a.Icon)
		})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "updated highlight %d\n", a.Index)
	return nil
}

// AdminAboutHighlightRemoveCmd implements 'admin about-highlight remove'.
type AdminAboutHighlightRemoveCmd struct {
	AdminConn `embed:""`

	Index int `arg:"" help:"Position of the card"`
}

func (a *AdminAboutHighlightRemoveCmd) Run(g *Global, _ *CLI) error {
	if err := a.edit(func(b *editbuffer.Buffer) error { return b.RemoveAboutHighlight(a.Index) }); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "removed highlight %d\n", a.Index)
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
