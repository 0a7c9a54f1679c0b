package editbuffer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

func sampleDoc() document.Document {
	return document.Document{
		Personal: document.Personal{Name: "Ada"},
		About:    document.About{Skills: []string{"Math"}},
		Projects: document.Projects{Categories: []document.Category{{
			ID:   document.TextID("engines"),
			Name: "Engines",
			Projects: []document.Project{
				{Name: "Difference Engine", Description: "first"},
				{Name: "Analytical Engine", Description: "second", Highlights: []string{"loops"}},
				{Name: "Notes", Description: "third"},
			},
		}}},
	}
}

func names(doc document.Document, cat int) []string {
	var out []string
	for _, p := range doc.Projects.Categories[cat].Projects {
		out = append(out, p.Name)
	}
	return out
}

func TestNew_DeepCopies(t *testing.T) {
	src := sampleDoc()
	b := New(src)
	require.NoError(t, b.UpdateProject(0, 0, func(p *document.Project) { p.Name = "changed" }))
	assert.Equal(t, "Difference Engine", src.Projects.Categories[0].Projects[0].Name)

	snapshot := b.Document()
	snapshot.Projects.Categories[0].Projects[0].Name = "mutated outside"
	assert.Equal(t, "changed", b.Document().Projects.Categories[0].Projects[0].Name)
}

func TestDeleteProject_PreservesOrder(t *testing.T) {
	b := New(sampleDoc())
	require.NoError(t, b.DeleteProject(0, 1))
	assert.Equal(t, []string{"Difference Engine", "Notes"}, names(b.Document(), 0))
	assert.True(t, b.Dirty())
}

func TestAddProject_AppendsPlaceholder(t *testing.T) {
	b := New(sampleDoc())
	idx, err := b.AddProject(0)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	p := b.Document().Projects.Categories[0].Projects[3]
	assert.Equal(t, document.NewProject(), p)

	require.NoError(t, b.UpdateProject(0, idx, func(p *document.Project) {
		p.Name = "Bernoulli"
		p.Technologies = []string{"punch cards"}
	}))
	assert.Equal(t, []string{"Difference Engine", "Analytical Engine", "Notes", "Bernoulli"}, names(b.Document(), 0))
}

func TestOutOfRange_LeavesBufferUnchanged(t *testing.T) {
	b := New(sampleDoc())
	before := b.Document()

	calls := map[string]func() error{
		"delete project":      func() error { return b.DeleteProject(0, 3) },
		"negative project":    func() error { return b.DeleteProject(0, -1) },
		"missing category":    func() error { _, err := b.AddProject(1); return err },
		"update project":      func() error { return b.UpdateProject(2, 0, func(*document.Project) {}) },
		"remove category":     func() error { return b.RemoveCategory(5) },
		"update category":     func() error { return b.UpdateCategory(-1, func(*document.Category) {}) },
		"remove skill":        func() error { return b.RemoveSkill(1) },
		"update highlight":    func() error { return b.UpdateAboutHighlight(0, func(*document.Highlight) {}) },
		"remove highlight":    func() error { return b.RemoveAboutHighlight(0) },
		"set proj highlight":  func() error { return b.SetProjectHighlight(0, 1, 1, "x") },
		"remove proj highlig": func() error { return b.RemoveProjectHighlight(0, 0, 0) },
		"blank skill":         func() error { return b.AddSkill("  ") },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
		})
	}
	assert.Equal(t, before, b.Document())
	assert.False(t, b.Dirty())
}

func TestSetters(t *testing.T) {
	b := New(document.Document{})
	b.SetName("Grace")
	b.SetTitle("Admiral")
	b.SetPhoto("https://img.example/g.png")
	b.SetEmail("grace@example.com")
	b.SetLinkedIn("https://linkedin.com/in/grace")
	b.SetGitHub("https://github.com/grace")
	b.SetAboutTitle("Bio")
	b.SetAboutDescription("Compilers.")
	require.NoError(t, b.AddSkill(" COBOL "))
	require.NoError(t, b.AddSkill("FORTRAN"))
	require.NoError(t, b.RemoveSkill(0))
	b.AddAboutHighlight(document.Highlight{Title: "Bug", Icon: "code"})
	require.NoError(t, b.UpdateAboutHighlight(0, func(h *document.Highlight) { h.Description = "found a moth" }))

	cat := b.AddCategory(document.Category{Name: "Languages"})
	require.NoError(t, b.UpdateCategory(cat, func(c *document.Category) {
		c.Description = "compiled"
		c.Projects = nil
	}))
	pi, err := b.AddProject(cat)
	require.NoError(t, err)
	hi, err := b.AddProjectHighlight(cat, pi)
	require.NoError(t, err)
	require.NoError(t, b.SetProjectHighlight(cat, pi, hi, "A-0 System"))

	doc := b.Document()
	assert.Equal(t, document.Personal{
		Name: "Grace", Title: "Admiral", Photo: "https://img.example/g.png", Email: "grace@example.com",
		LinkedIn: "https://linkedin.com/in/grace", GitHub: "https://github.com/grace",
	}, doc.Personal)
	assert.Equal(t, []string{"FORTRAN"}, doc.About.Skills)
	assert.Equal(t, "found a moth", doc.About.Highlights[0].Description)
	assert.Equal(t, "compiled", doc.Projects.Categories[0].Description)
	require.Len(t, doc.Projects.Categories[0].Projects, 1, "UpdateCategory must not drop projects")
	assert.Equal(t, []string{"A-0 System"}, doc.Projects.Categories[0].Projects[0].Highlights)

	require.NoError(t, b.RemoveProjectHighlight(cat, pi, 0))
	require.NoError(t, b.RemoveAboutHighlight(0))
	require.NoError(t, b.RemoveCategory(cat))
	assert.Empty(t, b.Document().Projects.Categories)
}

func TestAssemble(t *testing.T) {
	b := New(sampleDoc())
	assert.False(t, b.Dirty())
	require.NoError(t, b.DeleteProject(0, 0))

	raw, err := b.Assemble()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	projects := got["projects"].(map[string]any)["categories"].([]any)[0].(map[string]any)["projects"].([]any)
	require.Len(t, projects, 2)
	assert.Equal(t, "Analytical Engine", projects[0].(map[string]any)["name"])

	b.MarkSaved()
	assert.False(t, b.Dirty())
}

const mistypedProjects = `{
  "personal": {"name": "Ada"},
  "about": {"skills": ["Go"]},
  "projects": {"categories": [{"id": 1, "name": "Work", "projects": [
    {"name": "Engine", "description": "d", "technologies": "Go"},
    {"name": "Notes", "description": "n"}
  ]}]},
  "theme": {"accent": "teal"}
}`

func TestAssemble_KeepsSectionsItCannotDecode(t *testing.T) {
	doc, err := document.Parse([]byte(mistypedProjects))
	require.NoError(t, err)
	require.True(t, doc.Preserved(document.SectionProjects))

	b := New(doc)
	require.NoError(t, b.AddSkill("Rust"))
	raw, err := b.Assemble()
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.JSONEq(t, `{"skills":["Go","Rust"]}`, string(got["about"]))
	assert.JSONEq(t, `{"categories":[{"id":1,"name":"Work","projects":[
		{"name":"Engine","description":"d","technologies":"Go"},
		{"name":"Notes","description":"n"}]}]}`, string(got["projects"]))
	assert.JSONEq(t, `{"accent":"teal"}`, string(got["theme"]))
}

func TestAssemble_RefusesEditsToUndecodedSection(t *testing.T) {
	doc, err := document.Parse([]byte(`{"projects":{"categories":[{"name":"Work","extra":true}]}}`))
	require.NoError(t, err)

	b := New(doc)
	_, err = b.AddProject(0)
	require.NoError(t, err)
	_, err = b.Assemble()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
