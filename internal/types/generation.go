// Package types defines the shared data structures exchanged between the
// generation orchestrator, the local synthesis engine, and CLI commands.
package types

// OperationKind tags a GenerationRequest with the content operation to perform.
type OperationKind string

// Supported generation operations.
const (
	// OpResumeContent generates a full set of resume fragments.
	OpResumeContent OperationKind = "resume-content"
	// OpSectionEnhance rewrites a single resume section.
	OpSectionEnhance OperationKind = "section-enhance"
	// OpMultiSectionEnhance rewrites several sections in one pass.
	OpMultiSectionEnhance OperationKind = "multi-section-enhance"
	// OpProfileSummary generates a professional summary and objective.
	OpProfileSummary OperationKind = "profile-summary"
	// OpATSScore computes an ATS compatibility score for a resume.
	OpATSScore OperationKind = "ats-score"
)

// PersonalInfo holds the candidate's contact details.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Education is a single education entry on a resume.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	Highlights  string `json:"highlights,omitempty"`
}

// Experience is a single work experience entry on a resume.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a single project entry on a resume.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Outcome      string   `json:"outcome,omitempty"`
}

// Skills groups the candidate's skills by kind.
type Skills struct {
	Technical []string `json:"technical,omitempty"`
	Soft      []string `json:"soft,omitempty"`
}

// ResumeData is the partial resume content carried on a GenerationRequest.
// Any field may be empty; the synthesis engine only fills gaps and never
// overwrites populated fields.
type ResumeData struct {
	PersonalInfo PersonalInfo `json:"personalInfo,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Objective    string       `json:"objective,omitempty"`
	Education    []Education  `json:"education,omitempty"`
	Experience   []Experience `json:"experience,omitempty"`
	Skills       Skills       `json:"skills,omitempty"`
	Projects     []Project    `json:"projects,omitempty"`
	Achievements []string     `json:"achievements,omitempty"`
}

// GenerationRequest describes one content-generation call. It is immutable
// for the duration of the call. Validation tags express the contract errors
// that are surfaced to the caller rather than absorbed by the fallback path.
type GenerationRequest struct {
	Kind            OperationKind `json:"kind" validate:"required,oneof=resume-content section-enhance multi-section-enhance profile-summary ats-score"`
	TargetRole      string        `json:"targetRole" validate:"required_unless=Kind ats-score"`
	IsFresher       bool          `json:"isFresher"`
	YearsExperience int           `json:"yearsExperience" validate:"gte=0"`
	Resume          ResumeData    `json:"resume"`
	JobDescription  string        `json:"jobDescription,omitempty"`

	// Section is required for section-enhance; Sections for multi-section-enhance.
	Section  string   `json:"section,omitempty" validate:"required_if=Kind section-enhance"`
	Sections []string `json:"sections,omitempty" validate:"required_if=Kind multi-section-enhance"`
}
