// Package document defines the typed view of the portfolio configuration document.
//
// The store persists raw JSON bytes; this package only gives readers (the
// presentation layer, the edit buffer, the link checker) a typed shape to work
// with. Parsing is lenient: absent or malformed sections degrade to zero values.
package document

import (
	"bytes"
	"encoding/json"
	"maps"
	"sort"
	"strconv"
)

// Section names of the top-level document members.
const (
	SectionPersonal = "personal"
	SectionAbout    = "about"
	SectionProjects = "projects"
)

// Document is the whole configuration document.
type Document struct {
	Personal Personal `json:"personal"`
	About    About    `json:"about"`
	Projects Projects `json:"projects"`

	// preserved holds top-level members carried through verbatim: unknown
	// keys, and sections whose stored form the typed shape cannot reproduce.
	preserved map[string]json.RawMessage
}

// Preserved reports whether section is carried as stored bytes rather than
// re-encoded from its typed form.
func (d Document) Preserved(section string) bool {
	_, ok := d.preserved[section]
	return ok
}

// Personal holds identity and contact details.
type Personal struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Photo    string `json:"photo,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// About is the about section.
type About struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Highlights  []Highlight `json:"highlights,omitempty"`
	Skills      []string    `json:"skills,omitempty"`
}

// Highlight is one card in the about section.
type Highlight struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Projects groups project categories.
type Projects struct {
	Categories []Category `json:"categories,omitempty"`
}

// Category is an ordered group of projects.
type Category struct {
	ID          CategoryID `json:"id,omitzero"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Projects    []Project  `json:"projects,omitempty"`
}

// Key returns the stable identity of the category: its id, or its position.
func (c Category) Key(index int) string {
	if !c.ID.IsZero() {
		return c.ID.String()
	}
	return strconv.Itoa(index)
}

// Project is a single portfolio entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	GitHubURL    string   `json:"githubUrl,omitempty"`
	LiveURL      string   `json:"liveUrl,omitempty"`
	DocsURL      string   `json:"docsUrl,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// NewProject returns the placeholder the admin view appends on "add project".
func NewProject() Project {
	return Project{Name: "New Project", Description: "Description"}
}

// CategoryID is a category id as stored: a JSON string or a JSON number.
// Numeric ids keep their literal so a save does not change their type.
type CategoryID struct {
	value   string
	numeric bool
}

// TextID returns a string id.
func TextID(s string) CategoryID { return CategoryID{value: s} }

// String returns the id as text; numbers keep their literal form.
func (id CategoryID) String() string { return id.value }

// IsZero reports whether the id is absent.
func (id CategoryID) IsZero() bool { return id.value == "" }

// MarshalJSON implements json.Marshaler.
func (id CategoryID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *CategoryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = CategoryID{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TextID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = CategoryID{value: n.String(), numeric: true}
	return nil
}

// Parse decodes raw into a Document. Only top-level non-object input is an
// error; each section that fails to decode is left at its zero value.
//
// A section is re-encoded from its typed form only when it decodes strictly
// (no unknown fields, no mismatched types). Any other section, and any
// unknown top-level member, is preserved verbatim for Encode.
func Parse(raw []byte) (Document, error) {
	var doc Document
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return doc, err
	}
	for key, value := range members {
		var exact bool
		switch key {
		case SectionPersonal:
			exact = decodeSection(value, &doc.Personal)
		case SectionAbout:
			exact = decodeSection(value, &doc.About)
		case SectionProjects:
			exact = decodeSection(value, &doc.Projects)
		}
		if !exact {
			doc.preserve(key, value)
		}
	}
	return doc, nil
}

func (d *Document) preserve(key string, value json.RawMessage) {
	if d.preserved == nil {
		d.preserved = make(map[string]json.RawMessage)
	}
	d.preserved[key] = append(json.RawMessage(nil), value...)
}

// decodeSection fills dst leniently and reports whether a strict decode of
// raw also succeeds.
func decodeSection[T any](raw json.RawMessage, dst *T) bool {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var strict T
	return dec.Decode(&strict) == nil && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

// Encode renders the document as indented JSON. Typed sections come first in
// a fixed order; preserved members follow sorted by key.
func Encode(doc Document) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	member := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}

	typed := []struct {
		key   string
		value any
	}{
		{SectionPersonal, doc.Personal},
		{SectionAbout, doc.About},
		{SectionProjects, doc.Projects},
	}
	for _, sec := range typed {
		if raw, ok := doc.preserved[sec.key]; ok {
			member(sec.key, raw)
			continue
		}
		b, err := json.Marshal(sec.value)
		if err != nil {
			return nil, err
		}
		member(sec.key, b)
	}

	extra := make([]string, 0, len(doc.preserved))
	for key := range doc.preserved {
		switch key {
		case SectionPersonal, SectionAbout, SectionProjects:
		default:
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		member(key, doc.preserved[key])
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Clone returns a deep copy of doc.
func Clone(doc Document) Document {
	out := doc
	out.preserved = maps.Clone(doc.preserved)
	out.About.Highlights = append([]Highlight(nil), doc.About.Highlights...)
	out.About.Skills = append([]string(nil), doc.About.Skills...)
	if doc.Projects.Categories != nil {
		out.Projects.Categories = make([]Category, len(doc.Projects.Categories))
		for i, c := range doc.Projects.Categories {
			cc := c
			if c.Projects != nil {
				cc.Projects = make([]Project, len(c.Projects))
				for j, p := range c.Projects {
					cc.Projects[j] = cloneProject(p)
				}
			}
			out.Projects.Categories[i] = cc
		}
	}
	return out
}

func cloneProject(p Project) Project {
	p.Technologies = append([]string(nil), p.Technologies...)
	p.Highlights = append([]string(nil), p.Highlights...)
	return p
}
