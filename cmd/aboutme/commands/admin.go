package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/aboutme/internal/client"
	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/editbuffer"
	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

// AdminCmd groups the commands that edit the document through the API.
type AdminCmd struct {
	Verify           AdminVerifyCmd           `cmd:"" help:"Check the admin password against the server"`
	SetPersonal      AdminSetPersonalCmd      `cmd:"" name:"set-personal" help:"Change personal details"`
	SetAbout         AdminSetAboutCmd         `cmd:"" name:"set-about" help:"Change the about title or text"`
	AddSkill         AdminAddSkillCmd         `cmd:"" name:"add-skill" help:"Append a skill to the about section"`
	RemoveSkill      AdminRemoveSkillCmd      `cmd:"" name:"remove-skill" help:"Remove a skill from the about section"`
	AboutHighlight   AdminAboutHighlightCmd   `cmd:"" name:"about-highlight" help:"Edit the about highlight cards"`
	Category         AdminCategoryCmd         `cmd:"" help:"Edit project categories"`
	AddProject       AdminAddProjectCmd       `cmd:"" name:"add-project" help:"Append a project to a category"`
	EditProject      AdminEditProjectCmd      `cmd:"" name:"edit-project" help:"Change fields of an existing project"`
	DeleteProject    AdminDeleteProjectCmd    `cmd:"" name:"delete-project" help:"Remove a project from a category"`
	ProjectHighlight AdminProjectHighlightCmd `cmd:"" name:"project-highlight" help:"Edit a project's highlight lines"`
}

// AdminConn holds the flags shared by every admin command.
type AdminConn struct {
	URL      string        `help:"Base URL of the running server" default:"http://localhost:8080" env:"ABOUTME_URL"`
	Password string        `help:"Admin password" env:"ADMIN_PASSWORD"`
	Timeout  time.Duration `help:"Request timeout" default:"30s"`
}

func (a AdminConn) newClient() *client.Client { return client.New(a.URL, nil) }

func (a AdminConn) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Timeout)
}

// edit fetches the document, applies fn to a buffer and saves the result.
func (a AdminConn) edit(fn func(*editbuffer.Buffer) error) error {
	if a.Password == "" {
		return derrors.ValidationError("admin password required (--password or ADMIN_PASSWORD)").Build()
	}
	ctx, cancel := a.requestContext()
	defer cancel()

	c := a.newClient()
	raw, err := c.Fetch(ctx)
	if err != nil {
		return err
	}
	doc, err := document.Parse(raw)
	if err != nil {
		return derrors.ValidationError("stored document is not a JSON object").WithCause(err).Build()
	}
	buf := editbuffer.New(doc)
	if err := fn(buf); err != nil {
		return err
	}
	if !buf.Dirty() {
		return nil
	}
	payload, err := buf.Assemble()
	if err != nil {
		return err
	}
	if err := c.Update(ctx, a.Password, payload); err != nil {
		return err
	}
	buf.MarkSaved()
	return nil
}

// findCategory resolves sel as a category key (id or position) or a name.
// Names match without regard to case.
func findCategory(doc document.Document, sel string) (int, error) {
	for i, c := range doc.Projects.Categories {
		if c.Key(i) == sel {
			return i, nil
		}
	}
	fold := cases.Fold()
	want := fold.String(sel)
	for i, c := range doc.Projects.Categories {
		if c.Name != "" && fold.String(c.Name) == want {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(sel); err == nil && i >= 0 && i < len(doc.Projects.Categories) {
		return i, nil
	}
	return 0, derrors.NotFoundError("category not found").WithContext("category", sel).Build()
}

// AdminVerifyCmd implements 'admin verify'.
type AdminVerifyCmd struct {
	AdminConn `embed:""`
}

func (v *AdminVerifyCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := v.requestContext()
	defer cancel()
	ok, err := v.newClient().Verify(ctx, v.Password)
	if err != nil {
		return err
	}
	if !ok {
		return client.ErrUnauthorized
	}
	_, _ = fmt.Fprintln(g.out(), "password valid")
	return nil
}

// AdminAddProjectCmd implements 'admin add-project'.
type AdminAddProjectCmd struct {
	AdminConn `embed:""`

	Category     string   `arg:"" help:"Category id, position or name"`
	Name         string   `help:"Project name"`
	Description  string   `help:"Project description (Markdown)"`
	Technologies []string `name:"tech" help:"Technologies used"`
	GitHubURL    string   `name:"github-url" help:"Repository URL"`
	LiveURL      string   `name:"live-url" help:"Live demo URL"`
	DocsURL      string   `name:"docs-url" help:"Documentation URL"`
}

func (p *AdminAddProjectCmd) Run(g *Global, _ *CLI) error {
	var added int
	err := p.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), p.Category)
		if err != nil {
			return err
		}
		if added, err = b.AddProject(cat); err != nil {
			return err
		}
		return b.UpdateProject(cat, added, func(pr *document.Project) {
			if p.Name != "" {
				pr.Name = p.Name
			}
			if p.Description != "" {
				pr.Description = p.Description
			}
			pr.Technologies = p.Technologies
			pr.GitHubURL = p.GitHubURL
			pr.LiveURL = p.LiveURL
			pr.DocsURL = p.DocsURL
		})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "added project %d to %s\n", added, p.Category)
	return nil
}

// AdminDeleteProjectCmd implements 'admin delete-project'.
type AdminDeleteProjectCmd struct {
	AdminConn `embed:""`

	Category string `arg:"" help:"Category id, position or name"`
	Index    int    `arg:"" help:"Position of the project within the category"`
}

func (d *AdminDeleteProjectCmd) Run(g *Global, _ *CLI) error {
	err := d.edit(func(b *editbuffer.Buffer) error {
		cat, err := findCategory(b.Document(), d.Category)
		if err != nil {
			return err
		}
		return b.DeleteProject(cat, d.Index)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "deleted project %d from %s\n", d.Index, d.Category)
	return nil
}

// AdminSetPersonalCmd implements 'admin set-personal'. Unset flags keep their value.
type AdminSetPersonalCmd struct {
	AdminConn `embed:""`

	Name     *string `help:"Display name"`
	Title    *string `help:"Professional title"`
	Photo    *string `help:"Photo URL"`
	Email    *string `help:"Contact email"`
	LinkedIn *string `name:"linkedin" help:"LinkedIn URL"`
	GitHub   *string `name:"github" help:"GitHub URL"`
}

func (s *AdminSetPersonalCmd) Run(g *Global, _ *CLI) error {
	err := s.edit(func(b *editbuffer.Buffer) error {
		setters := []struct {
			v   *string
			set func(string)
		}{
			{s.Name, b.SetName},
			{s.Title, b.SetTitle},
			{s.Photo, b.SetPhoto},
			{s.Email, b.SetEmail},
			{s.LinkedIn, b.SetLinkedIn},
			{s.GitHub, b.SetGitHub},
		}
		for _, st := range setters {
			if st.v != nil {
				st.set(*st.v)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.out(), "personal details updated")
	return nil
}

// AdminAddSkillCmd implements 'admin add-skill'.
type AdminAddSkillCmd struct {
	AdminConn `embed:""`

	Skill string `arg:"" help:"Skill to append"`
}

func (s *AdminAddSkillCmd) Run(g *Global, _ *CLI) error {
	if err := s.edit(func(b *editbuffer.Buffer) error { return b.AddSkill(s.Skill) }); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "added skill %q\n", s.Skill)
	return nil
}
