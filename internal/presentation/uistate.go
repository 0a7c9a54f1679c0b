package presentation

// Section keys for UIState. Category sections use "category:<key>".
const (
	SectionAbout    = "about"
	SectionProjects = "projects"
)

// CategorySection returns the UIState key for a category.
func CategorySection(key string) string { return "category:" + key }

// UIState is per-viewer state: which sections are collapsed and where to
// scroll. It is never sent to the config API.
type UIState struct {
	collapsed    map[string]bool
	ScrollTarget string
}

// NewUIState returns a state with every section expanded.
func NewUIState() UIState {
	return UIState{collapsed: map[string]bool{}}
}

// Expanded reports whether section is expanded. Sections start expanded.
func (u UIState) Expanded(section string) bool {
	return !u.collapsed[section]
}

// Toggle flips section between expanded and collapsed.
func (u *UIState) Toggle(section string) {
	if u.collapsed == nil {
		u.collapsed = map[string]bool{}
	}
	u.collapsed[section] = !u.collapsed[section]
}

// ScrollTo records the section the viewer navigated to.
func (u *UIState) ScrollTo(section string) {
	u.ScrollTarget = section
}
