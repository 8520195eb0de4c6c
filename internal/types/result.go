package types

import (
	"time"

	"github.com/google/uuid"
)

// Provenance marks whether a result came from the remote model or the local
// synthesis engine. The payload schema is identical either way.
type Provenance string

// Provenance values.
const (
	ProvenanceAI    Provenance = "ai"
	ProvenanceLocal Provenance = "local"
)

// ResumeContent is the payload for the resume-content operation.
type ResumeContent struct {
	Summary      string       `json:"summary"`
	Objective    string       `json:"objective"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       Skills       `json:"skills"`
	Projects     []Project    `json:"projects"`
	Achievements []string     `json:"achievements"`
	Improvements []string     `json:"improvements"`
}

// SectionContent is the payload for a single enhanced section.
type SectionContent struct {
	Section  string `json:"section"`
	Enhanced string `json:"enhanced"`
}

// ProfileSummary is the payload for the profile-summary operation.
type ProfileSummary struct {
	Summary   string `json:"summary"`
	Objective string `json:"objective"`
}

// ATSResult is the payload for the ats-score operation.
type ATSResult struct {
	Score           int       `json:"score"`
	Summary         string    `json:"summary"`
	KeywordsMatched []string  `json:"keywordsMatched"`
	KeywordsMissing []string  `json:"keywordsMissing"`
	Suggestions     []string  `json:"suggestions"`
	ComputedAt      time.Time `json:"computedAt"`
}

// GenerationResult is the tagged union returned by every generation
// operation. Exactly one payload field is populated, matching Kind.
// A result is never absent: every operation terminates in success with a
// provenance tag.
type GenerationResult struct {
	ID         uuid.UUID     `json:"id"`
	Kind       OperationKind `json:"kind"`
	Provenance Provenance    `json:"provenance"`

	Content  *ResumeContent            `json:"content,omitempty"`
	Section  *SectionContent           `json:"section,omitempty"`
	Sections map[string]SectionContent `json:"sections,omitempty"`
	Profile  *ProfileSummary           `json:"profile,omitempty"`
	ATS      *ATSResult                `json:"ats,omitempty"`
}

// NewResult constructs a GenerationResult shell with a fresh identifier.
func NewResult(kind OperationKind, provenance Provenance) *GenerationResult {
	return &GenerationResult{
		ID:         uuid.New(),
		Kind:       kind,
		Provenance: provenance,
	}
}
