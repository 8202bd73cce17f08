package domain

import "time"

type FileStatus string

const (
	FileStatusUploaded  FileStatus = "uploaded"
	FileStatusProcessed FileStatus = "processed"
	FileStatusFailed    FileStatus = "failed"
)

// ResumeFile tracks one uploaded source document.
type ResumeFile struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Filename    string     `json:"filename"`
	MediaType   string     `json:"media_type"`
	StoragePath string     `json:"storage_path"`
	Status      FileStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PersonalInfo is the contact block of a canonical resume.
type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
}

type ExperienceEntry struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	EndDate     string `json:"end_date"`
	GPA         string `json:"gpa,omitempty"`
}

type SkillGroups struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// CanonicalResume is the normalized internal representation of a resume,
// independent of source format or template. Date fields hold YYYY-MM or
// the literal "current"; free text is sanitized before it lands here.
type CanonicalResume struct {
	PersonalInfo         PersonalInfo      `json:"personal_info"`
	Summary              string            `json:"summary"`
	Experience           []ExperienceEntry `json:"experience"`
	Education            []EducationEntry  `json:"education"`
	Skills               SkillGroups       `json:"skills"`
	CompletionPercentage int               `json:"completion_percentage"`
}

// ResumeVersion is one saved revision of a user's resume. Saves append
// new versions; at most one version is current per (user, template).
type ResumeVersion struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	TemplateID string          `json:"template_id"`
	Version    int             `json:"version"`
	Current    bool            `json:"current"`
	Resume     CanonicalResume `json:"resume"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ResumeHistoryEntry is an audit record appended by the worker after a
// processed event.
type ResumeHistoryEntry struct {
	ID        string    `json:"id"`
	VersionID string    `json:"version_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
