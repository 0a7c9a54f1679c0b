package commands

import (
	"fmt"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/editbuffer"
)

// AdminEditProjectCmd implements 'admin edit-project'. Unset flags keep their value.
type AdminEditProjectCmd struct {
	AdminConn `embed:""`

	Category     string   `arg:"" help:"Category id, position or name"`
	Index        int      `arg:"" help:"Position of the project within the category"`
	Name         *string  `help:"Project name"`
	Description  *string  `help:"Project description (Markdown)"`
	Technologies []string `name:"tech" help:"Replace the technologies list"`
	ClearTech    bool     `name:"clear-tech" help:"Empty the technologies list"`
	GitHubURL    *string  `name:"github-url" help:"Repository URL"`
	LiveURL      *string  `name:"live-url" help:"Live demo URL"`
	DocsURL      *string  `name:"docs-url" help:"Documentation URL"`
}

func (e *AdminEditProjectCmd) Run(g *Global, _ *CLI) error {
	err := e.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), e.Category)
		if err != nil {
			return err
		}
		return b.UpdateProject(cat, e.Index, func(p *document.Project) {
			setIf(&p.Name, e.Name)
			setIf(&p.Description, e.Description)
			setIf(&p.GitHubURL, e.GitHubURL)
			setIf(&p.LiveURL, e.LiveURL)
			setIf(&p.DocsURL, e.DocsURL)
			switch {
			case e.ClearTech:
				p.Technologies = nil
			case len(e.Technologies) > 0:
				p.Technologies = e.Technologies
			}
		})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "updated project %d in %s\n", e.Index, e.Category)
	return nil
}

// ProjectRef addresses one project.
type ProjectRef struct {
	Category string `arg:"" help:"Category id, position or name"`
	Project  int    `arg:"" help:"Position of the project within the category"`
}

// AdminProjectHighlightCmd groups the project highlight edits.
type AdminProjectHighlightCmd struct {
	Add    AdminProjectHighlightAddCmd    `cmd:"" help:"Append a highlight line"`
	Set    AdminProjectHighlightSetCmd    `cmd:"" help:"Replace a highlight line"`
	Remove AdminProjectHighlightRemoveCmd `cmd:"" help:"Remove a highlight line"`
}

// AdminProjectHighlightAddCmd implements 'admin project-highlight add'.
type AdminProjectHighlightAddCmd struct {
	AdminConn  `embed:""`
	ProjectRef `embed:""`

	Text string `arg:"" help:"Highlight text"`
}

func (a *AdminProjectHighlightAddCmd) Run(g *Global, _ *CLI) error {
	var added int
	err := a.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), a.Category)
		if err != nil {
			return err
		}
		if added, err = b.AddProjectHighlight(cat, a.Project); err != nil {
			return err
		}
		return b.SetProjectHighlight(cat, a.Project, added, a.Text)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "added highlight %d to project %d\n", added, a.Project)
	return nil
}

// AdminProjectHighlightSetCmd implements 'admin project-highlight set'.
type AdminProjectHighlightSetCmd struct {
	AdminConn  `embed:""`
	ProjectRef `embed:""`

	Index int    `arg:"" help:"Position of the highlight"`
	Text  string `arg:"" help:"Highlight text"`
}

func (a *AdminProjectHighlightSetCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), a.Category)
		if err != nil {
			return err
		}
		return b.SetProjectHighlight(cat, a.Project, a.Index, a.Text)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "updated highlight %d of project %d\n", a.Index, a.Project)
	return nil
}

// AdminProjectHighlightRemoveCmd implements 'admin project-highlight remove'.
type AdminProjectHighlightRemoveCmd struct {
	AdminConn  `embed:""`
	ProjectRef `embed:""`

	Index int `arg:"" help:"Position of the highlight"`
}

func (a *AdminProjectHighlightRemoveCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), a.Category)
		if err != nil {
			return err
		}
		return b.RemoveProjectHighlight(cat, a.Project, a.Index)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "removed highlight %d of project %d\n", a.Index, a.Project)
	return nil
}

// AdminCategoryCmd groups the category edits.
type AdminCategoryCmd struct {
	Add    AdminCategoryAddCmd    `cmd:"" help:"Append a category"`
	Set    AdminCategorySetCmd    `cmd:"" help:"Change a category's name or description"`
	Remove AdminCategoryRemoveCmd `cmd:"" help:"Remove a category and its projects"`
}

// AdminCategoryAddCmd implements 'admin category add'.
type AdminCategoryAddCmd struct {
	AdminConn `embed:""`

	Name        string `arg:"" help:"Category name"`
	ID          string `name:"id" help:"Stable category id"`
	Description string `help:"Category description"`
}

func (a *AdminCategoryAddCmd) Run(g *Global, _ *CLI) error {
	var added int
	err := a.edit(func(b *editbuffer.Buffer) error {
		added = b.AddCategory(document.Category{
			ID:          document.TextID(a.ID),
			Name:        a.Name,
			Description: a.Description,
		})
		return nil
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "added category %d\n", added)
	return nil
}

// AdminCategorySetCmd implements 'admin category set'.
type AdminCategorySetCmd struct {
	AdminConn `embed:""`

	Category    string  `arg:"" help:"Category id, position or name"`
	Name        *string `help:"Category name"`
	Description *string `help:"Category description"`
}

func (a *AdminCategorySetCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), a.Category)
		if err != nil {
			return err
		}
		return b.UpdateCategory(cat, func(c *document.Category) {
			setIf(&c.Name, a.Name)
			setIf(&c.Description, a.Description)
		})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "updated category %s\n", a.Category)
	return nil
}

// AdminCategoryRemoveCmd implements 'admin category remove'.
type AdminCategoryRemoveCmd struct {
	AdminConn `embed:""`

	Category string `arg:"" help:"Category id, position or name"`
}

func (a *AdminCategoryRemoveCmd) Run(g *Global, _ *CLI) error {
	err := a.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), a.Category)
		if err != nil {
			return err
		}
		return b.RemoveCategory(cat)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "removed category %s\n", a.Category)
	return nil
}
