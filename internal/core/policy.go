package core

// SitePolicy represents the structure of the optional .sentinel.yml file.
// It lets an operator extend the classification prompt without rebuilding.
type SitePolicy struct {
	// Additional prohibited categories appended to the built-in set
	// (spam, harassment, misinformation, inappropriate content, fraud).
	ExtraCategories []string `yaml:"extra_categories"`

	// Free-form instructions appended verbatim to the system prompt.
	// Example: ["Flag posts advertising door-to-door sales."]
	CustomInstructions []string `yaml:"custom_instructions"`
}

// DefaultSitePolicy returns a policy with no site-specific additions.
func DefaultSitePolicy() *SitePolicy {
	return &SitePolicy{
		ExtraCategories:    []string{},
		CustomInstructions: []string{},
	}
}
