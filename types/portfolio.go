package types

import "time"

// Theme template names accepted by the dashboard.
const (
	TemplateModern   = "modern"
	TemplateMinimal  = "minimal"
	TemplateCreative = "creative"
)

// Defaults applied to an empty theme on save.
const (
	DefaultTemplate     = TemplateModern
	DefaultPrimaryColor = "#8B5CF6"
	DefaultFont         = "Inter"
)

// Portfolio is the single document a user edits in the dashboard and
// publishes under a handle. Every save replaces the whole document;
// there is no field-level patching.
type Portfolio struct {
	// ID is the unique identifier of the portfolio.
	ID int `json:"id" db:"id"`

	// UserID references the owning user. It is never serialized: the
	// public endpoint must not leak the owner and the owner endpoints
	// already know whose document they return.
	UserID int `json:"-" db:"user_id"`

	// Handle is the user-chosen public URL segment. Empty means unset.
	// Non-empty handles are unique across all portfolios.
	Handle string `json:"handle" db:"handle"`

	PersonalInfo PersonalInfo `json:"personalInfo" db:"personal_info"`
	Skills       []Skill      `json:"skills" db:"skills"`
	Projects     []Project    `json:"projects" db:"projects"`
	Education    []Education  `json:"education" db:"education"`
	Experience   []Experience `json:"experience" db:"experience"`
	Contact      Contact      `json:"contact" db:"contact"`
	Theme        Theme        `json:"theme" db:"theme"`

	// Published controls public visibility. A portfolio is publicly
	// readable only when Published is true and Handle is non-empty.
	Published bool `json:"published" db:"published"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PersonalInfo is the hero section of the portfolio.
type PersonalInfo struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// Skill is one entry of the skills section. Slice order is the
// display order and round-trips through save/get unchanged.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Project is one entry of the projects section.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	GitHub      string `json:"github"`
	Demo        string `json:"demo"`
}

// Education is one entry of the education section.
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// Experience is one entry of the work experience section.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Contact holds the contact section. All fields are optional.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
}

// Theme selects the public page template and styling.
type Theme struct {
	Template     string `json:"template"`
	PrimaryColor string `json:"primaryColor"`
	Font         string `json:"font"`
}

// WithDefaults returns the theme with empty fields replaced by the
// dashboard defaults.
func (t Theme) WithDefaults() Theme {
	if t.Template == "" {
		t.Template = DefaultTemplate
	}
	if t.PrimaryColor == "" {
		t.PrimaryColor = DefaultPrimaryColor
	}
	if t.Font == "" {
		t.Font = DefaultFont
	}
	return t
}
