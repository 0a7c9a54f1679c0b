package presentation

import (
	"embed"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var iconSVG = map[string]template.HTML{
	"brain": `<svg width="32" height="32" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M9.5 2A2.5 2.5 0 0 1 12 4.5v15a2.5 2.5 0 0 1-4.96.44 2.5 2.5 0 0 1-2.96-3.08 3 3 0 0 1-.34-5.58 2.5 2.5 0 0 1 1.32-4.24 2.5 2.5 0 0 1 1.98-3A2.5 2.5 0 0 1 9.5 2Z"/><path d="M14.5 2A2.5 2.5 0 0 0 12 4.5v15a2.5 2.5 0 0 0 4.96.44 2.5 2.5 0 0 0 2.96-3.08 3 3 0 0 0 .34-5.58 2.5 2.5 0 0 0-1.32-4.24 2.5 2.5 0 0 0-1.98-3A2.5 2.5 0 0 0 14.5 2Z"/></svg>`,
	"code": `<svg width="32" height="32" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><polyline points="16 18 22 12 16 6"/><polyline points="8 6 2 12 8 18"/></svg>`,
	"trending-up": `<svg width="32" height="32" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><polyline points="23 6 13.5 15.5 8.5 10.5 1 18"/><polyline points="17 6 23 6 23 12"/></svg>`,
}

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"icon": func(key string) template.HTML {
		if svg, ok := iconSVG[key]; ok {
			return svg
		}
		return iconSVG["code"]
	},
	"categorySection": CategorySection,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

type pageData struct {
	View
	UI   UIState
	Year int
}

// Render writes the view as a complete HTML page with every section expanded.
func Render(w io.Writer, view View) error {
	return RenderWithState(w, view, NewUIState(), time.Now().Year())
}

// RenderWithState writes the view honoring ui. year is shown in the copyright line.
func RenderWithState(w io.Writer, view View, ui UIState, year int) error {
	return pageTemplate.Execute(w, pageData{View: view, UI: ui, Year: year})
}
