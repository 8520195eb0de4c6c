package synthesis

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullResume() types.ResumeData {
	return types.ResumeData{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"},
		Summary:      "Software engineer experienced in Go services, testing, and APIs.",
		Education:    []types.Education{{Degree: "BS", Field: "CS", Institution: "State U"}},
		Experience:   []types.Experience{{Title: "Engineer", Company: "Acme", Description: "Built Go services."}},
		Skills:       types.Skills{Technical: []string{"Go", "Docker", "PostgreSQL"}},
		Projects:     []types.Project{{Name: "Job Board", Description: "A job board."}},
		Achievements: []string{"Promoted within a year."},
	}
}

func TestCompletenessRatio_Empty(t *testing.T) {
	resume := types.ResumeData{}
	assert.InDelta(t, 0.0, CompletenessRatio(&resume), 0.0001)
}

func TestCompletenessRatio_Full(t *testing.T) {
	resume := fullResume()
	assert.InDelta(t, 1.0, CompletenessRatio(&resume), 0.0001)
}

func TestCompletenessRatio_PartialContactIsFractional(t *testing.T) {
	resume := types.ResumeData{
		PersonalInfo: types.PersonalInfo{Email: "ada@example.com"},
	}
	assert.InDelta(t, 0.1/3.0, CompletenessRatio(&resume), 0.0001)
}

func TestBandedScore_LowBand(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		e := NewEngineWithSeed(seed)
		score := e.bandedScore(0.39, 10000)
		assert.GreaterOrEqual(t, score, 35)
		assert.Less(t, score, 50)
	}
}

func TestBandedScore_HighBand(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		e := NewEngineWithSeed(seed)
		score := e.bandedScore(1.0, 0)
		assert.GreaterOrEqual(t, score, 70)
		assert.LessOrEqual(t, score, 80)
	}
}

func TestBandedScore_LengthBonusMonotonicAndCapped(t *testing.T) {
	const seed = 7
	prev := 0
	for _, length := range []int{0, 400, 800, 1600, 2400, 100000} {
		score := NewEngineWithSeed(seed).bandedScore(1.0, length)
		assert.GreaterOrEqual(t, score, prev, "length %d", length)
		assert.LessOrEqual(t, score, 80)
		prev = score
	}

	base := NewEngineWithSeed(seed).bandedScore(1.0, 0)
	huge := NewEngineWithSeed(seed).bandedScore(1.0, 100000)
	assert.LessOrEqual(t, huge-base, 5)
}

func TestTokenize(t *testing.T) {
	got := tokenize("Built REST APIs with Go, Docker and gRPC!")
	assert.Contains(t, got, "rest")
	assert.Contains(t, got, "apis")
	assert.Contains(t, got, "docker")
	// Tokens of length <= 3 are dropped.
	assert.NotContains(t, got, "go")
	assert.NotContains(t, got, "and")
}

func TestKeywordGap_DefaultsToSoftwareEngineerTable(t *testing.T) {
	resume := types.ResumeData{
		Summary: "Engineer focused on testing and debugging distributed systems.",
		Skills:  types.Skills{Technical: []string{"Git"}},
	}

	matched, missing := KeywordGap(&resume, "Underwater Basket Weaver", "")
	assert.Contains(t, matched, "testing")
	assert.Contains(t, matched, "debugging")
	assert.Contains(t, matched, "git")
	assert.Contains(t, missing, "algorithms")
}

func TestKeywordGap_JobDescriptionMergesTechnicalTerms(t *testing.T) {
	resume := types.ResumeData{
		Skills: types.Skills{Technical: []string{"Docker"}},
	}
	jd := "We need someone strong with Docker, Kubernetes and Terraform pipelines."

	matched, missing := KeywordGap(&resume, "Backend Developer", jd)
	assert.Contains(t, matched, "docker")
	assert.Contains(t, missing, "kubernetes")
	assert.Contains(t, missing, "terraform")
}

func TestATSScore_SparseResumeLowBand(t *testing.T) {
	e := NewEngineWithSeed(3)
	req := &types.GenerationRequest{
		Kind:   types.OpATSScore,
		Resume: types.ResumeData{PersonalInfo: types.PersonalInfo{}},
	}

	result := e.ATSScore(req)
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.Score, 35)
	assert.Less(t, result.Score, 50)
	assert.Empty(t, result.KeywordsMatched)
	assert.NotEmpty(t, result.KeywordsMissing)
	assert.NotEmpty(t, result.Suggestions)
	assert.False(t, result.ComputedAt.IsZero())
	assert.Contains(t, strings.ToLower(result.Summary), "missing")
}

func TestATSScore_CompleteResumeHighBand(t *testing.T) {
	e := NewEngineWithSeed(3)
	req := &types.GenerationRequest{
		Kind:       types.OpATSScore,
		TargetRole: "Software Engineer",
		Resume:     fullResume(),
	}

	result := e.ATSScore(req)
	assert.GreaterOrEqual(t, result.Score, 70)
	assert.LessOrEqual(t, result.Score, 80)
	assert.NotEmpty(t, result.KeywordsMatched)
}

func TestATSSuggestions_MentionsTopMissingKeywords(t *testing.T) {
	resume := types.ResumeData{}
	missing := []string{"react", "testing", "css", "html", "webpack", "extra"}

	got := atsSuggestions(&resume, missing)
	joined := strings.Join(got, " ")
	assert.Contains(t, joined, "react")
	// Only the first five missing keywords are surfaced.
	assert.NotContains(t, joined, "extra")
}
