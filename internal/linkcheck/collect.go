package linkcheck

import (
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/markdown"
)

// Link is a URL found in the document and the field it came from.
type Link struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Collect returns every http(s) link in doc, deduplicated by URL. The first
// field that mentions a URL is reported as its source.
func Collect(doc document.Document) []Link {
	c := collector{seen: map[string]bool{}}

	c.add("personal.photo", doc.Personal.Photo)
	c.add("personal.linkedin", doc.Personal.LinkedIn)
	c.add("personal.github", doc.Personal.GitHub)
	c.addMarkdown("about.description", doc.About.Description)
	for i, h := range doc.About.Highlights {
		c.addMarkdown(fmt.Sprintf("about.highlights[%d].description", i), h.Description)
	}
	for ci, cat := range doc.Projects.Categories {
		prefix := fmt.Sprintf("projects.categories[%d]", ci)
		c.addMarkdown(prefix+".description", cat.Description)
		for pi, p := range cat.Projects {
			pp := fmt.Sprintf("%s.projects[%d]", prefix, pi)
			c.add(pp+".githubUrl", p.GitHubURL)
			c.add(pp+".liveUrl", p.LiveURL)
			c.add(pp+".docsUrl", p.DocsURL)
			c.addMarkdown(pp+".description", p.Description)
		}
	}
	return c.links
}

type collector struct {
	seen  map[string]bool
	links []Link
}

func (c *collector) add(source, raw string) {
	raw = strings.TrimSpace(raw)
	if !isHTTP(raw) || c.seen[raw] {
		return
	}
	c.seen[raw] = true
	c.links = append(c.links, Link{URL: raw, Source: source})
}

func (c *collector) addMarkdown(source, src string) {
	links, err := markdown.ExtractLinks(src)
	if err != nil {
		return
	}
	for _, l := range links {
		c.add(source, l.Destination)
	}
}

func isHTTP(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
