package editbuffer

import (
	"slices"

	"git.home.luguber.info/inful/aboutme/internal/document"
)

// AddCategory appends c and returns its position.
func (b *Buffer) AddCategory(c document.Category) int {
	c.Projects = append([]document.Project(nil), c.Projects...)
	b.doc.Projects.Categories = append(b.doc.Projects.Categories, c)
	b.touch(document.SectionProjects)
	return len(b.doc.Projects.Categories) - 1
}

// UpdateCategory applies fn to the category at idx. fn sees the category's
// metadata; its projects are edited through the project setters.
func (b *Buffer) UpdateCategory(idx int, fn func(*document.Category)) error {
	if err := b.checkCategory(idx); err != nil {
		return err
	}
	c := b.doc.Projects.Categories[idx]
	projects := c.Projects
	fn(&c)
	c.Projects = projects
	b.doc.Projects.Categories[idx] = c
	b.touch(document.SectionProjects)
	return nil
}

// RemoveCategory removes the category at idx and all its projects.
func (b *Buffer) RemoveCategory(idx int) error {
	if err := b.checkCategory(idx); err != nil {
		return err
	}
	b.doc.Projects.Categories = slices.Delete(b.doc.Projects.Categories, idx, idx+1)
	b.touch(document.SectionProjects)
	return nil
}

// AddProject appends the placeholder project to category cat and returns its position.
func (b *Buffer) AddProject(cat int) (int, error) {
	if err := b.checkCategory(cat); err != nil {
		return 0, err
	}
	c := &b.doc.Projects.Categories[cat]
	c.Projects = append(c.Projects, document.NewProject())
	b.touch(document.SectionProjects)
	return len(c.Projects) - 1, nil
}

// UpdateProject applies fn to project idx of category cat.
func (b *Buffer) UpdateProject(cat, idx int, fn func(*document.Project)) error {
	p, err := b.project(cat, idx)
	if err != nil {
		return err
	}
	updated := *p
	fn(&updated)
	*p = updated
	b.touch(document.SectionProjects)
	return nil
}

// DeleteProject removes project idx of category cat. Remaining projects keep
// their relative order.
func (b *Buffer) DeleteProject(cat, idx int) error {
	if _, err := b.project(cat, idx); err != nil {
		return err
	}
	c := &b.doc.Projects.Categories[cat]
	c.Projects = slices.Delete(c.Projects, idx, idx+1)
	b.touch(document.SectionProjects)
	return nil
}

// AddProjectHighlight appends an empty highlight line and returns its position.
func (b *Buffer) AddProjectHighlight(cat, idx int) (int, error) {
	p, err := b.project(cat, idx)
	if err != nil {
		return 0, err
	}
	p.Highlights = append(p.Highlights, "")
	b.touch(document.SectionProjects)
	return len(p.Highlights) - 1, nil
}

// SetProjectHighlight replaces highlight h of project idx in category cat.
func (b *Buffer) SetProjectHighlight(cat, idx, h int, text string) error {
	p, err := b.project(cat, idx)
	if err != nil {
		return err
	}
	if err := checkIndex("project highlight", h, len(p.Highlights)); err != nil {
		return err
	}
	p.Highlights[h] = text
	b.touch(document.SectionProjects)
	return nil
}

// RemoveProjectHighlight removes highlight h of project idx in category cat.
func (b *Buffer) RemoveProjectHighlight(cat, idx, h int) error {
	p, err := b.project(cat, idx)
	if err != nil {
		return err
	}
	if err := checkIndex("project highlight", h, len(p.Highlights)); err != nil {
		return err
	}
	p.Highlights = slices.Delete(p.Highlights, h, h+1)
	b.touch(document.SectionProjects)
	return nil
}

func (b *Buffer) checkCategory(idx int) error {
	return checkIndex("category", idx, len(b.doc.Projects.Categories))
}

func (b *Buffer) project(cat, idx int) (*document.Project, error) {
	if err := b.checkCategory(cat); err != nil {
		return nil, err
	}
	c := &b.doc.Projects.Categories[cat]
	if err := checkIndex("project", idx, len(c.Projects)); err != nil {
		return nil, err
	}
	return &c.Projects[idx], nil
}
