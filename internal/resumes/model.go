package resumes

import "time"

// DefaultTitle is used when a resume is created without a title.
const DefaultTitle = "Untitled Resume"

// PersonalInfo holds contact and profile fields. Image is the only field the
// upload pipeline mutates.
type PersonalInfo struct {
	Image      string `json:"image"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	LinkedIn   string `json:"linkedin"`
	Website    string `json:"website"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"is_current"`
}

type Project struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa"`
}

// Content is every user-editable field of a resume. Updates replace it
// wholesale; identity fields live on Resume and are never part of Content, so
// a payload cannot overwrite them.
type Content struct {
	Title               string       `json:"title"`
	PersonalInfo        PersonalInfo `json:"personal_info"`
	ProfessionalSummary string       `json:"professional_summary"`
	Experience          []Experience `json:"experience"`
	Project             []Project    `json:"project"`
	Education           []Education  `json:"education"`
	Skills              []string     `json:"skills"`
	Template            string       `json:"template"`
	AccentColor         string       `json:"accent_color"`
	Public              bool         `json:"public"`
}

// Resume is an owned document: identity and timestamps around the editable Content.
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content
}

func cloneContent(c Content) Content {
	out := c
	out.Experience = append([]Experience(nil), c.Experience...)
	out.Project = append([]Project(nil), c.Project...)
	out.Education = append([]Education(nil), c.Education...)
	out.Skills = append([]string(nil), c.Skills...)
	return out
}
