// Package editbuffer holds an admin's in-progress edits to the document.
//
// Every mutation goes through a typed setter. Positions are validated before
// anything changes, so a failed call leaves the buffer as it was. Nothing is
// sent anywhere until the caller assembles the document and saves it.
package editbuffer

import (
	"encoding/json"
	"slices"
	"strings"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

// Buffer is a mutable working copy of a document. It is not safe for
// concurrent use.
type Buffer struct {
	doc     document.Document
	touched map[string]bool
}

// New returns a buffer holding a deep copy of doc.
func New(doc document.Document) *Buffer {
	return &Buffer{doc: document.Clone(doc)}
}

// Document returns a deep copy of the current state.
func (b *Buffer) Document() document.Document { return document.Clone(b.doc) }

// Dirty reports whether any edit has been applied since New or MarkSaved.
func (b *Buffer) Dirty() bool { return len(b.touched) > 0 }

// MarkSaved clears the dirty flag after a successful save.
func (b *Buffer) MarkSaved() { b.touched = nil }

// Assemble produces the full replacement document. Sections the buffer did
// not edit are written back as they were stored. Editing a section whose
// stored form could not be decoded exactly is refused, since saving it would
// drop whatever the typed form cannot hold.
func (b *Buffer) Assemble() (json.RawMessage, error) {
	for _, section := range []string{document.SectionPersonal, document.SectionAbout, document.SectionProjects} {
		if b.touched[section] && b.doc.Preserved(section) {
			return nil, errors.ValidationError("stored section does not match the document schema").
				WithContext("section", section).
				Build()
		}
	}
	raw, err := document.Encode(b.doc)
	if err != nil {
		return nil, errors.InternalError("failed to encode document").WithCause(err).Build()
	}
	return raw, nil
}

func (b *Buffer) touch(section string) {
	if b.touched == nil {
		b.touched = make(map[string]bool)
	}
	b.touched[section] = true
}

func outOfRange(what string, idx, n int) error {
	return errors.ValidationError(what+" position out of range").
		WithContext("index", idx).
		WithContext("length", n).
		Build()
}

func checkIndex(what string, idx, n int) error {
	if idx < 0 || idx >= n {
		return outOfRange(what, idx, n)
	}
	return nil
}

// Personal section.

func (b *Buffer) SetName(v string)     { b.doc.Personal.Name = v; b.touch(document.SectionPersonal) }
func (b *Buffer) SetTitle(v string)    { b.doc.Personal.Title = v; b.touch(document.SectionPersonal) }
func (b *Buffer) SetPhoto(v string)    { b.doc.Personal.Photo = v; b.touch(document.SectionPersonal) }
func (b *Buffer) SetEmail(v string)    { b.doc.Personal.Email = v; b.touch(document.SectionPersonal) }
func (b *Buffer) SetLinkedIn(v string) { b.doc.Personal.LinkedIn = v; b.touch(document.SectionPersonal) }
func (b *Buffer) SetGitHub(v string)   { b.doc.Personal.GitHub = v; b.touch(document.SectionPersonal) }

// About section.

func (b *Buffer) SetAboutTitle(v string)       { b.doc.About.Title = v; b.touch(document.SectionAbout) }
func (b *Buffer) SetAboutDescription(v string) { b.doc.About.Description = v; b.touch(document.SectionAbout) }

// AddSkill appends skill. Blank skills are a validation error.
func (b *Buffer) AddSkill(skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return errors.ValidationError("skill must not be empty").Build()
	}
	b.doc.About.Skills = append(b.doc.About.Skills, skill)
	b.touch(document.SectionAbout)
	return nil
}

// RemoveSkill removes the skill at idx.
func (b *Buffer) RemoveSkill(idx int) error {
	if err := checkIndex("skill", idx, len(b.doc.About.Skills)); err != nil {
		return err
	}
	b.doc.About.Skills = slices.Delete(b.doc.About.Skills, idx, idx+1)
	b.touch(document.SectionAbout)
	return nil
}

// AddAboutHighlight appends h.
func (b *Buffer) AddAboutHighlight(h document.Highlight) {
	b.doc.About.Highlights = append(b.doc.About.Highlights, h)
	b.touch(document.SectionAbout)
}

// UpdateAboutHighlight applies fn to the highlight at idx.
func (b *Buffer) UpdateAboutHighlight(idx int, fn func(*document.Highlight)) error {
	if err := checkIndex("highlight", idx, len(b.doc.About.Highlights)); err != nil {
		return err
	}
	h := b.doc.About.Highlights[idx]
	fn(&h)
	b.doc.About.Highlights[idx] = h
	b.touch(document.SectionAbout)
	return nil
}

// RemoveAboutHighlight removes the highlight at idx.
func (b *Buffer) RemoveAboutHighlight(idx int) error {
	if err := checkIndex("highlight", idx, len(b.doc.About.Highlights)); err != nil {
		return err
	}
	b.doc.About.Highlights = slices.Delete(b.doc.About.Highlights, idx, idx+1)
	b.touch(document.SectionAbout)
	return nil
}
