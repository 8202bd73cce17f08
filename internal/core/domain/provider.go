package domain

// ProviderName identifies one of the interchangeable text-generation
// services.
type ProviderName string

const (
	ProviderGemini     ProviderName = "gemini"
	ProviderMistral    ProviderName = "mistral"
	ProviderPerplexity ProviderName = "perplexity"
)

// FallbackOrder returns the fixed order of alternates tried after the
// named provider fails. Unknown providers fall back through the full
// default chain.
func (p ProviderName) FallbackOrder() []ProviderName {
	switch p {
	case ProviderGemini:
		return []ProviderName{ProviderPerplexity, ProviderMistral}
	case ProviderMistral:
		return []ProviderName{ProviderGemini, ProviderPerplexity}
	case ProviderPerplexity:
		return []ProviderName{ProviderGemini, ProviderMistral}
	default:
		return []ProviderName{ProviderGemini, ProviderPerplexity, ProviderMistral}
	}
}

func (p ProviderName) Valid() bool {
	switch p {
	case ProviderGemini, ProviderMistral, ProviderPerplexity:
		return true
	}
	return false
}

type StylePreferences struct {
	Tone   string `json:"tone"`
	Length string `json:"length"`
	Focus  string `json:"focus"`
}

// SubjectContext carries the optional attributes embedded into the
// generation prompt.
type SubjectContext struct {
	JobTitle        string   `json:"job_title,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Education       string   `json:"education,omitempty"`
	TargetRole      string   `json:"target_role,omitempty"`
}

// ProviderRequest is the immutable prompt input sent to a
// provider.
type ProviderRequest struct {
	ContentType string           `json:"content_type"`
	Context     SubjectContext   `json:"context"`
	Style       StylePreferences `json:"style"`
	Input       string           `json:"input,omitempty"`
}

type SkillCategory string

const (
	SkillTechnical        SkillCategory = "technical"
	SkillSoft             SkillCategory = "soft"
	SkillIndustrySpecific SkillCategory = "industry_specific"
)

type SkillEntry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category"`
	Proficiency string        `json:"proficiency"`
	Demand      string        `json:"demand"`
}

type Suggestion struct {
	Kind       string  `json:"kind"`
	Field      string  `json:"field"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
	Priority   string  `json:"priority"`
}

// ProviderResponse is the parsed outcome of one generation, tagged with
// which provider actually produced it and whether fallback was taken.
type ProviderResponse struct {
	Summary     string       `json:"summary"`
	Skills      []SkillEntry `json:"skills"`
	Suggestions []Suggestion `json:"suggestions"`

	Provider         ProviderName `json:"provider"`
	Fallback         bool         `json:"fallback"`
	OriginalProvider ProviderName `json:"original_provider,omitempty"`
}

// AIParsedResume is the loosely-structured resume object a provider
// returns for an extraction prompt, before normalization. Every field is
// optional; absent substructures normalize to empty collections.
type AIParsedResume struct {
	PersonalInfo *PersonalInfo     `json:"personal_info"`
	Summary      string            `json:"summary"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Skills       *SkillGroups      `json:"skills"`
}
