package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MissingSectionsDegrade(t *testing.T) {
	doc, err := Parse([]byte(`{"personal":{"name":"Ada"},"about":{},"projects":{"categories":[]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.Personal.Name)
	assert.Empty(t, doc.About.Description)
	assert.Empty(t, doc.Projects.Categories)
}

func TestParse_WrongTypedSectionIsEmpty(t *testing.T) {
	doc, err := Parse([]byte(`{"personal":{"name":"Ada"},"projects":"oops"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.Personal.Name)
	assert.Empty(t, doc.Projects.Categories)
}

func TestParse_NonObjectFails(t *testing.T) {
	_, err := Parse([]byte(`[1,2,3]`))
	require.Error(t, err)
}

func TestCategoryID_AcceptsNumbers(t *testing.T) {
	doc, err := Parse([]byte(`{"projects":{"categories":[{"id":7,"name":"a"},{"id":"ml","name":"b"},{"name":"c"}]}}`))
	require.NoError(t, err)
	require.Len(t, doc.Projects.Categories, 3)
	assert.Equal(t, "7", doc.Projects.Categories[0].Key(0))
	assert.False(t, doc.Preserved(SectionProjects))
	assert.Equal(t, "ml", doc.Projects.Categories[1].Key(1))
	assert.Equal(t, "2", doc.Projects.Categories[2].Key(2))
}

func TestNormalizeIcon(t *testing.T) {
	cases := map[string]string{
		"brain":       IconBrain,
		"trending-up": IconTrendingUp,
		"code":        IconCode,
		"Brain":       DefaultIcon,
		" brain":      DefaultIcon,
		"rocket":      DefaultIcon,
		"":            DefaultIcon,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeIcon(in), "input %q", in)
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := Seed()
	cp := Clone(orig)
	cp.Projects.Categories[0].Projects[0].Name = "changed"
	cp.About.Skills[0] = "Rust"
	assert.Equal(t, "New Project", orig.Projects.Categories[0].Projects[0].Name)
	assert.Equal(t, "Go", orig.About.Skills[0])
}

func TestEncode_RoundTripsThroughParse(t *testing.T) {
	raw, err := Encode(Seed())
	require.NoError(t, err)
	require.True(t, json.Valid(raw))
	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Seed(), back)
}

func TestEncode_KeepsNumericCategoryIDs(t *testing.T) {
	doc, err := Parse([]byte(`{"projects":{"categories":[{"id":7,"name":"a"},{"id":"8","name":"b"},{"name":"c"}]}}`))
	require.NoError(t, err)

	raw, err := Encode(doc)
	require.NoError(t, err)
	var got struct {
		Projects struct {
			Categories []map[string]json.RawMessage `json:"categories"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Projects.Categories, 3)
	assert.Equal(t, `7`, string(got.Projects.Categories[0]["id"]))
	assert.Equal(t, `"8"`, string(got.Projects.Categories[1]["id"]))
	assert.NotContains(t, got.Projects.Categories[2], "id")
}

func TestParse_PreservesWhatTheTypedShapeCannotHold(t *testing.T) {
	raw := []byte(`{
		"personal": {"name": "Ada", "location": "London"},
		"about": {"skills": ["Go"]},
		"projects": {"categories": [{"name": "Work", "projects": [{"name": "E", "description": "d", "technologies": "Go"}]}]},
		"theme": "dark"
	}`)
	doc, err := Parse(raw)
	require.NoError(t, err)

	assert.True(t, doc.Preserved(SectionPersonal), "unknown field")
	assert.False(t, doc.Preserved(SectionAbout))
	assert.True(t, doc.Preserved(SectionProjects), "mistyped field")
	assert.Equal(t, "Ada", doc.Personal.Name, "lenient view still decodes")

	out, err := Encode(doc)
	require.NoError(t, err)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))
	assert.JSONEq(t, `{"name":"Ada","location":"London"}`, string(got["personal"]))
	assert.JSONEq(t, `{"categories":[{"name":"Work","projects":[{"name":"E","description":"d","technologies":"Go"}]}]}`, string(got["projects"]))
	assert.JSONEq(t, `"dark"`, string(got["theme"]))

	cp := Clone(doc)
	assert.True(t, cp.Preserved(SectionProjects))
}
