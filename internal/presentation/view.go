// Package presentation turns a fetch result into a renderable view of the portfolio.
//
// Build is a pure function of the fetch result. The view carries everything a
// renderer needs; ephemeral UI state lives in UIState and is never part of the
// document.
package presentation

import (
	"bytes"
	"encoding/json"
	"html/template"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/markdown"
)

// State is the top-level render state.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Fallback text for absent fields and empty sections.
const (
	DefaultHeaderName  = "Portfolio"
	DefaultFooterName  = "Your Name"
	DefaultFooterTitle = "AI/ML Engineer"
	DefaultAboutTitle  = "About Me"
	ProjectsTitle      = "Projects"
	SkillsTitle        = "Key Skills & Technologies"

	LoadingMessage   = "Loading portfolio..."
	ErrorMessage     = "Error loading configuration. Please try again later."
	NoCategoriesText = "No project categories configured yet."
	NoProjectsText   = "No projects yet in this category."
)

// FetchResult is the outcome of fetching the document.
type FetchResult struct {
	Pending  bool
	Document json.RawMessage
	Err      error
}

// View is the complete render model.
type View struct {
	State    State
	Message  string
	Header   HeaderView
	Hero     HeroView
	About    AboutView
	Projects ProjectsView
	Footer   FooterView
}

type HeaderView struct {
	Name string
}

type HeroView struct {
	Name     string
	Title    string
	Photo    string
	Email    string
	LinkedIn string
	GitHub   string
}

type AboutView struct {
	Title       string
	Description template.HTML
	Highlights  []HighlightView
	Skills      []string
}

type HighlightView struct {
	Title       string
	Description template.HTML
	Icon        string
}

type ProjectsView struct {
	Title      string
	Categories []CategoryView
	// EmptyText is set when there are no categories.
	EmptyText string
}

type CategoryView struct {
	Key         string
	Name        string
	Description template.HTML
	Projects    []ProjectView
	// EmptyText is set when the category has no projects.
	EmptyText string
}

type ProjectView struct {
	Name         string
	Description  template.HTML
	Technologies []string
	GitHubURL    string
	LiveURL      string
	DocsURL      string
	Highlights   []string
}

type FooterView struct {
	Name     string
	Title    string
	GitHub   string
	LinkedIn string
	Email    string
}

// Build maps a fetch result onto a view. It never fails: missing or malformed
// sections render as defaults or empty states.
func Build(result FetchResult) View {
	switch {
	case result.Pending:
		return View{State: StateLoading, Message: LoadingMessage}
	case result.Err != nil || !isObject(result.Document):
		return View{State: StateError, Message: ErrorMessage}
	}

	doc, err := document.Parse(result.Document)
	if err != nil {
		return View{State: StateError, Message: ErrorMessage}
	}

	p := doc.Personal
	return View{
		State:  StateReady,
		Header: HeaderView{Name: or(p.Name, DefaultHeaderName)},
		Hero: HeroView{
			Name:     p.Name,
			Title:    p.Title,
			Photo:    p.Photo,
			Email:    p.Email,
			LinkedIn: p.LinkedIn,
			GitHub:   p.GitHub,
		},
		About:    buildAbout(doc.About),
		Projects: buildProjects(doc.Projects),
		Footer: FooterView{
			Name:     or(p.Name, DefaultFooterName),
			Title:    or(p.Title, DefaultFooterTitle),
			GitHub:   p.GitHub,
			LinkedIn: p.LinkedIn,
			Email:    p.Email,
		},
	}
}

func buildAbout(a document.About) AboutView {
	v := AboutView{
		Title:       or(a.Title, DefaultAboutTitle),
		Description: renderMarkdown(a.Description),
		Skills:      a.Skills,
	}
	for _, h := range a.Highlights {
		v.Highlights = append(v.Highlights, HighlightView{
			Title:       h.Title,
			Description: renderMarkdown(h.Description),
			Icon:        document.NormalizeIcon(h.Icon),
		})
	}
	return v
}

func buildProjects(p document.Projects) ProjectsView {
	v := ProjectsView{Title: ProjectsTitle}
	if len(p.Categories) == 0 {
		v.EmptyText = NoCategoriesText
		return v
	}
	for i, c := range p.Categories {
		cv := CategoryView{
			Key:         c.Key(i),
			Name:        c.Name,
			Description: renderMarkdown(c.Description),
		}
		for _, pr := range c.Projects {
			cv.Projects = append(cv.Projects, ProjectView{
				Name:         pr.Name,
				Description:  renderMarkdown(pr.Description),
				Technologies: pr.Technologies,
				GitHubURL:    pr.GitHubURL,
				LiveURL:      pr.LiveURL,
				DocsURL:      pr.DocsURL,
				Highlights:   pr.Highlights,
			})
		}
		if len(cv.Projects) == 0 {
			cv.EmptyText = NoProjectsText
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

// renderMarkdown returns goldmark output, which is safe to embed because raw
// HTML in the source is dropped. On failure the text is escaped instead.
func renderMarkdown(src string) template.HTML {
	out, err := markdown.Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src)) // #nosec G203 -- escaped above
	}
	return template.HTML(out) // #nosec G203 -- goldmark without WithUnsafe
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
