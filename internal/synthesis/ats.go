package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Section weights for the completeness ratio. They sum to exactly 1.0.
const (
	weightSummary      = 0.10
	weightContact      = 0.10 // combined across name/email/phone
	weightEducation    = 0.20
	weightExperience   = 0.20
	weightTechSkills   = 0.15
	weightProjects     = 0.15
	weightAchievements = 0.10
)

// Score banding. The local path never claims AI-grade confidence: complete
// resumes cap at 80 while sparse ones land in the low band.
const (
	lowBandFloor   = 35
	lowBandSpan    = 15 // [35,50)
	highBandFloor  = 70
	highBandSpan   = 11 // [70,80]
	scoreCap       = 80
	bandThreshold  = 0.4
	lengthBonusCap = 5
	lengthPerBonus = 400 // characters of resume text per bonus point
)

// CompletenessRatio computes the weighted fraction of expected resume
// sections that are present. Contact credit is fractional across the three
// contact fields.
func CompletenessRatio(resume *types.ResumeData) float64 {
	ratio := 0.0
	if strings.TrimSpace(resume.Summary) != "" {
		ratio += weightSummary
	}

	contact := 0
	if resume.PersonalInfo.Name != "" {
		contact++
	}
	if resume.PersonalInfo.Email != "" {
		contact++
	}
	if resume.PersonalInfo.Phone != "" {
		contact++
	}
	ratio += weightContact * float64(contact) / 3.0

	if len(resume.Education) > 0 {
		ratio += weightEducation
	}
	if len(resume.Experience) > 0 {
		ratio += weightExperience
	}
	if len(resume.Skills.Technical) > 0 {
		ratio += weightTechSkills
	}
	if len(resume.Projects) > 0 {
		ratio += weightProjects
	}
	if len(resume.Achievements) > 0 {
		ratio += weightAchievements
	}
	return ratio
}

// resumeTextLength measures the free-text volume driving the length bonus.
func resumeTextLength(resume *types.ResumeData) int {
	length := len(resume.Summary) + len(resume.Objective)
	for _, exp := range resume.Experience {
		length += len(exp.Description)
	}
	for _, p := range resume.Projects {
		length += len(p.Description) + len(p.Outcome)
	}
	for _, a := range resume.Achievements {
		length += len(a)
	}
	for _, ed := range resume.Education {
		length += len(ed.Highlights)
	}
	return length
}

// bandedScore draws a score from the band the completeness ratio selects.
// Below the threshold: [35,50). Otherwise [70,80] plus a length bonus
// (capped at +5) clamped back to 80.
func (e *Engine) bandedScore(ratio float64, textLength int) int {
	if ratio < bandThreshold {
		return lowBandFloor + e.rng.Intn(lowBandSpan)
	}
	score := highBandFloor + e.rng.Intn(highBandSpan)
	score += min(lengthBonusCap, textLength/lengthPerBonus)
	return min(score, scoreCap)
}

// tokenize lower-cases text and keeps word tokens longer than 3 characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '+' && r != '#'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			out = append(out, f)
		}
	}
	return out
}

// resumeKeywordSet derives the candidate's keyword set from the summary and
// technical skills list.
func resumeKeywordSet(resume *types.ResumeData) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(resume.Summary) {
		set[tok] = true
	}
	for _, skill := range resume.Skills.Technical {
		for _, tok := range tokenize(skill) {
			set[tok] = true
		}
		lowered := strings.ToLower(strings.TrimSpace(skill))
		if lowered != "" {
			set[lowered] = true
		}
	}
	return set
}

// expectedKeywordsFor returns the gap-analysis target set: the per-role
// table (defaulting to Software Engineer), merged with recognizable
// technical terms from the job description when one is supplied.
func expectedKeywordsFor(role, jobDescription string) []string {
	roleKey := strings.ToLower(strings.TrimSpace(role))
	words, ok := expectedKeywords[roleKey]
	if !ok {
		words = expectedKeywords[defaultKeywordRole]
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	if jobDescription != "" {
		for _, tok := range tokenize(jobDescription) {
			if techVocabulary[tok] {
				set[tok] = true
			}
		}
	}

	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// KeywordGap splits the expected keyword set into matched and missing
// against the resume's own keyword set.
func KeywordGap(resume *types.ResumeData, role, jobDescription string) (matched, missing []string) {
	have := resumeKeywordSet(resume)
	matched = []string{}
	missing = []string{}
	for _, w := range expectedKeywordsFor(role, jobDescription) {
		if have[w] {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return matched, missing
}

// ATSScore computes the complete local ATS payload for a request.
func (e *Engine) ATSScore(req *types.GenerationRequest) *types.ATSResult {
	resume := &req.Resume
	ratio := CompletenessRatio(resume)
	score := e.bandedScore(ratio, resumeTextLength(resume))
	matched, missing := KeywordGap(resume, req.TargetRole, req.JobDescription)

	return &types.ATSResult{
		Score:           score,
		Summary:         atsSummary(score, ratio),
		KeywordsMatched: matched,
		KeywordsMissing: missing,
		Suggestions:     atsSuggestions(resume, missing),
		ComputedAt:      e.now(),
	}
}

// atsSummary phrases the banded score for the caller.
func atsSummary(score int, ratio float64) string {
	switch {
	case ratio < bandThreshold:
		return fmt.Sprintf("Resume scores %d: several core sections are missing, which limits ATS compatibility.", score)
	case score >= 78:
		return fmt.Sprintf("Resume scores %d: well-structured with strong section coverage for ATS screening.", score)
	default:
		return fmt.Sprintf("Resume scores %d: solid section coverage with room to strengthen keyword alignment.", score)
	}
}

// atsSuggestions derives concrete advice from missing sections and keywords.
func atsSuggestions(resume *types.ResumeData, missing []string) []string {
	out := []string{}
	if strings.TrimSpace(resume.Summary) == "" {
		out = append(out, "Add a professional summary highlighting your target role.")
	}
	if len(resume.Experience) == 0 {
		out = append(out, "Add experience entries, including internships or substantial projects.")
	}
	if len(resume.Skills.Technical) == 0 {
		out = append(out, "List technical skills explicitly; ATS filters match on them directly.")
	}
	if len(resume.Projects) == 0 {
		out = append(out, "Add projects with the technologies used in each.")
	}
	if len(missing) > 0 {
		top := missing
		if len(top) > 5 {
			top = top[:5]
		}
		out = append(out, fmt.Sprintf("Work in missing keywords where truthful: %s.", strings.Join(top, ", ")))
	}
	if len(out) == 0 {
		out = append(out, "Tailor keywords to each job description before applying.")
	}
	return out
}
