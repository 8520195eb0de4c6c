package synthesis

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Engine generates resume fragments from rule tables without any network
// call. Content selection is fully deterministic; the only randomness is the
// bounded ATS score draw within a pre-classified band.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine returns an engine with a time-seeded score source.
func NewEngine() *Engine {
	return NewEngineWithSeed(time.Now().UnixNano())
}

// NewEngineWithSeed returns an engine with a fixed score source, for
// reproducible tests.
func NewEngineWithSeed(seed int64) *Engine {
	return &Engine{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// skillHighlight returns the first two technical skills joined for template
// insertion, with a generic stand-in when none are provided.
func skillHighlight(skills types.Skills) string {
	if len(skills.Technical) == 0 {
		return "modern development tools"
	}
	top := skills.Technical
	if len(top) > 2 {
		top = top[:2]
	}
	return strings.Join(top, ", ")
}

func levelKey(isFresher bool) string {
	if isFresher {
		return levelFresher
	}
	return levelExperienced
}

// Summary returns a role- and level-specific summary. Exact (role, level)
// table hits win; otherwise the generic template is filled with the role.
func (e *Engine) Summary(role string, isFresher bool, years int, skills types.Skills) string {
	level := levelKey(isFresher)
	data := map[string]string{
		"Role":   strings.TrimSpace(role),
		"Skills": skillHighlight(skills),
		"Years":  fmt.Sprintf("%d", max(years, 1)),
	}

	roleKey := strings.ToLower(strings.TrimSpace(role))
	if byLevel, ok := summaryTemplates[roleKey]; ok {
		if template, ok := byLevel[level]; ok {
			return fill(template, data)
		}
	}
	return fill(genericSummaryTemplates[level], data)
}

// Objective returns a role-templated objective statement.
func (e *Engine) Objective(role string, isFresher bool, years int, skills types.Skills) string {
	data := map[string]string{
		"Role":   strings.TrimSpace(role),
		"Skills": skillHighlight(skills),
		"Years":  fmt.Sprintf("%d", max(years, 1)),
	}
	return fill(objectiveTemplates[levelKey(isFresher)], data)
}

// categorize matches a project/achievement title against the category
// keyword tables. The last (General) category matches everything.
func categorize(title string) projectCategory {
	lowered := strings.ToLower(title)
	for _, cat := range projectCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				return cat
			}
		}
	}
	return projectCategories[len(projectCategories)-1]
}

// pick selects deterministically from a template list, keyed on the item
// title so the same input always yields the same text.
func pick(list []string, title string) string {
	if len(list) == 0 {
		return ""
	}
	return list[len(title)%len(list)]
}

// EnrichProjects fills empty description/outcome fields from the category
// tables. Populated fields are never overwritten.
func (e *Engine) EnrichProjects(projects []types.Project) []types.Project {
	enriched := make([]types.Project, len(projects))
	for i, p := range projects {
		cat := categorize(p.Name)
		tech := "practical, widely used technologies"
		if len(p.Technologies) > 0 {
			tech = strings.Join(p.Technologies, ", ")
		}
		data := map[string]string{"Name": p.Name, "Tech": tech}

		if p.Description == "" {
			p.Description = fill(pick(cat.descriptions, p.Name), data)
		}
		if p.Outcome == "" {
			p.Outcome = pick(cat.outcomes, p.Name)
		}
		enriched[i] = p
	}
	return enriched
}

// EnrichEducation fills empty highlights. Populated fields are preserved.
func (e *Engine) EnrichEducation(education []types.Education) []types.Education {
	enriched := make([]types.Education, len(education))
	for i, ed := range education {
		if ed.Highlights == "" {
			ed.Highlights = pick(educationHighlights, ed.Institution+ed.Degree)
		}
		enriched[i] = ed
	}
	return enriched
}

// Achievements returns the caller's achievements unchanged when present,
// otherwise synthesizes level-appropriate ones.
func (e *Engine) Achievements(role string, isFresher bool, existing []string, projectCount int) []string {
	if len(existing) > 0 {
		return existing
	}
	data := map[string]string{
		"Role":  strings.TrimSpace(role),
		"Count": fmt.Sprintf("%d", max(projectCount, 1)),
	}
	templates := achievementTemplates[levelKey(isFresher)]
	out := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, fill(tmpl, data))
	}
	return out
}

// ResumeContent produces the full resume-content payload for a request.
// The output schema matches the remote path exactly.
func (e *Engine) ResumeContent(req *types.GenerationRequest) *types.ResumeContent {
	resume := req.Resume

	summary := resume.Summary
	if summary == "" {
		summary = e.Summary(req.TargetRole, req.IsFresher, req.YearsExperience, resume.Skills)
	}
	objective := resume.Objective
	if objective == "" {
		objective = e.Objective(req.TargetRole, req.IsFresher, req.YearsExperience, resume.Skills)
	}

	content := &types.ResumeContent{
		Summary:      summary,
		Objective:    objective,
		Education:    e.EnrichEducation(resume.Education),
		Experience:   append([]types.Experience{}, resume.Experience...),
		Skills:       resume.Skills,
		Projects:     e.EnrichProjects(resume.Projects),
		Achievements: e.Achievements(req.TargetRole, req.IsFresher, resume.Achievements, len(resume.Projects)),
		Improvements: e.improvements(&resume, req.IsFresher),
	}
	normalizeContent(content)
	return content
}

// ProfileSummary produces the profile-summary payload.
func (e *Engine) ProfileSummary(req *types.GenerationRequest) *types.ProfileSummary {
	return &types.ProfileSummary{
		Summary:   e.Summary(req.TargetRole, req.IsFresher, req.YearsExperience, req.Resume.Skills),
		Objective: e.Objective(req.TargetRole, req.IsFresher, req.YearsExperience, req.Resume.Skills),
	}
}

// EnhanceSection rewrites one section from the rule tables.
func (e *Engine) EnhanceSection(req *types.GenerationRequest, section string) *types.SectionContent {
	resume := req.Resume
	var enhanced string

	switch strings.ToLower(strings.TrimSpace(section)) {
	case "summary":
		enhanced = e.Summary(req.TargetRole, req.IsFresher, req.YearsExperience, resume.Skills)
	case "objective":
		enhanced = e.Objective(req.TargetRole, req.IsFresher, req.YearsExperience, resume.Skills)
	case "projects":
		var sb strings.Builder
		for i, p := range e.EnrichProjects(resume.Projects) {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("%s: %s %s", p.Name, p.Description, p.Outcome))
		}
		enhanced = sb.String()
	case "experience":
		var sb strings.Builder
		for i, exp := range resume.Experience {
			if i > 0 {
				sb.WriteString("\n")
			}
			desc := exp.Description
			if desc == "" {
				desc = fmt.Sprintf("Contributed to %s initiatives as %s with consistent, measurable delivery.", exp.Company, exp.Title)
			}
			sb.WriteString(fmt.Sprintf("%s, %s: %s", exp.Title, exp.Company, desc))
		}
		enhanced = sb.String()
	case "achievements":
		achievements := e.Achievements(req.TargetRole, req.IsFresher, resume.Achievements, len(resume.Projects))
		enhanced = strings.Join(achievements, "\n")
	case "skills":
		enhanced = strings.Join(resume.Skills.Technical, ", ")
		if len(resume.Skills.Soft) > 0 {
			enhanced += "\nSoft skills: " + strings.Join(resume.Skills.Soft, ", ")
		}
	default:
		enhanced = e.Summary(req.TargetRole, req.IsFresher, req.YearsExperience, resume.Skills)
	}

	return &types.SectionContent{
		Section:  section,
		Enhanced: enhanced,
	}
}

// improvements lists concrete gaps the candidate should close, derived from
// missing sections.
func (e *Engine) improvements(resume *types.ResumeData, isFresher bool) []string {
	out := []string{}
	if resume.Summary == "" {
		out = append(out, "Add a tailored professional summary near the top of the resume.")
	}
	if len(resume.Experience) == 0 {
		if isFresher {
			out = append(out, "Include internships, coursework projects, or volunteer work in place of formal experience.")
		} else {
			out = append(out, "Add work experience entries with measurable outcomes.")
		}
	}
	if len(resume.Projects) == 0 {
		out = append(out, "Showcase 2-3 projects with technologies used and concrete results.")
	}
	if len(resume.Skills.Technical) < 5 {
		out = append(out, "Expand the technical skills section to cover tools used in projects.")
	}
	if len(resume.Achievements) == 0 {
		out = append(out, "List achievements or recognitions to differentiate the profile.")
	}
	if len(out) == 0 {
		out = append(out, "Quantify accomplishments with metrics wherever possible.")
	}
	return out
}

// normalizeContent guarantees non-nil slices so the payload shape matches
// the remote path byte for byte.
func normalizeContent(c *types.ResumeContent) {
	if c.Education == nil {
		c.Education = []types.Education{}
	}
	if c.Experience == nil {
		c.Experience = []types.Experience{}
	}
	if c.Projects == nil {
		c.Projects = []types.Project{}
	}
	if c.Achievements == nil {
		c.Achievements = []string{}
	}
	if c.Improvements == nil {
		c.Improvements = []string{}
	}
	if c.Skills.Technical == nil {
		c.Skills.Technical = []string{}
	}
	if c.Skills.Soft == nil {
		c.Skills.Soft = []string{}
	}
}
