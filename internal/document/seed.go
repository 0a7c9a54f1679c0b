package document

// Seed returns the content written when no document exists yet.
func Seed() Document {
	return Document{
		Personal: Personal{
			Name:  "Your Name",
			Title: "AI/ML Engineer",
			Email: "you@example.com",
		},
		About: About{
			Title:       "About Me",
			Description: "A short introduction. Edit it from the admin view.",
			Highlights: []Highlight{
				{Title: "Machine Learning", Description: "Models from prototype to production.", Icon: IconBrain},
				{Title: "Engineering", Description: "Reliable services and tooling.", Icon: IconCode},
				{Title: "Impact", Description: "Measured results.", Icon: IconTrendingUp},
			},
			Skills: []string{"Go", "Python"},
		},
		Projects: Projects{
			Categories: []Category{
				{
					ID:          TextID("featured"),
					Name:        "Featured",
					Description: "Selected work.",
					Projects:    []Project{NewProject()},
				},
			},
		},
	}
}
