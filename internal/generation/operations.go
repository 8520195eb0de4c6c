package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/repair"
	"github.com/jonathan/resume-assistant/internal/schemas"
	"github.com/jonathan/resume-assistant/internal/synthesis"
	"github.com/jonathan/resume-assistant/internal/types"
)

// opSpec bundles the per-operation request shaping: prompt construction,
// remote response parsing, local fallback construction, and call budget.
type opSpec struct {
	params       llm.GenerateParams
	timeoutScale float64
	prompt       func(req *types.GenerationRequest) (string, error)
	parse        func(req *types.GenerationRequest, raw string) (*types.GenerationResult, error)
	local        func(engine *synthesis.Engine, req *types.GenerationRequest) *types.GenerationResult
}

// timeout derives the per-operation hard timeout from the configured base.
// Heavier operations get proportionally more time (25s at the 20s default),
// lighter ones less (15s).
func (o opSpec) timeout(cfg *config.Config) time.Duration {
	return time.Duration(o.timeoutScale * float64(time.Duration(cfg.RequestTimeout)))
}

func operationSpec(kind types.OperationKind) opSpec {
	switch kind {
	case types.OpSectionEnhance:
		return sectionEnhanceSpec
	case types.OpProfileSummary:
		return profileSummarySpec
	case types.OpATSScore:
		return atsScoreSpec
	default:
		return resumeContentSpec
	}
}

func levelLabel(isFresher bool) string {
	if isFresher {
		return "fresher"
	}
	return "experienced"
}

// repairAndValidate applies the text repair unit, checks the payload against
// the operation's schema, and returns the repaired bytes for unmarshaling.
func repairAndValidate(schemaKind, raw string) ([]byte, error) {
	repaired := []byte(repair.JSON(raw))
	var probe any
	if err := json.Unmarshal(repaired, &probe); err != nil {
		return nil, fmt.Errorf("response is not valid JSON after repair: %w", err)
	}
	if err := schemas.Validate(schemaKind, repaired); err != nil {
		return nil, err
	}
	return repaired, nil
}

// --- resume-content ---

var resumeContentSpec = opSpec{
	params:       llm.GenerateParams{Temperature: 0.3, MaxOutputTokens: 4096, JSONResponse: true},
	timeoutScale: 1.25,
	prompt: func(req *types.GenerationRequest) (string, error) {
		template, err := prompts.Get("resume_content")
		if err != nil {
			return "", err
		}
		resumeJSON, err := json.Marshal(req.Resume)
		if err != nil {
			return "", err
		}
		return prompts.Format(template, map[string]string{
			"Role":   req.TargetRole,
			"Level":  levelLabel(req.IsFresher),
			"Years":  fmt.Sprintf("%d", req.YearsExperience),
			"Resume": string(resumeJSON),
		}), nil
	},
	parse: func(req *types.GenerationRequest, raw string) (*types.GenerationResult, error) {
		repaired, err := repairAndValidate("resume_content", raw)
		if err != nil {
			return nil, err
		}
		var content types.ResumeContent
		if err := json.Unmarshal(repaired, &content); err != nil {
			return nil, err
		}
		mergeResumeContent(&content, &req.Resume)

		result := types.NewResult(types.OpResumeContent, types.ProvenanceAI)
		result.Content = &content
		return result, nil
	},
	local: func(engine *synthesis.Engine, req *types.GenerationRequest) *types.GenerationResult {
		result := types.NewResult(types.OpResumeContent, types.ProvenanceLocal)
		result.Content = engine.ResumeContent(req)
		return result
	},
}

// mergeResumeContent restores caller-populated fields over the model's
// output: generation only fills gaps and never overwrites provided content.
func mergeResumeContent(content *types.ResumeContent, resume *types.ResumeData) {
	if resume.Summary != "" {
		content.Summary = resume.Summary
	}
	if resume.Objective != "" {
		content.Objective = resume.Objective
	}
	if len(resume.Education) > 0 {
		content.Education = resume.Education
	}
	if len(resume.Experience) > 0 {
		content.Experience = resume.Experience
	}
	if len(resume.Skills.Technical) > 0 {
		content.Skills.Technical = resume.Skills.Technical
	}
	if len(resume.Skills.Soft) > 0 {
		content.Skills.Soft = resume.Skills.Soft
	}
	if len(resume.Projects) > 0 {
		content.Projects = resume.Projects
	}
	if len(resume.Achievements) > 0 {
		content.Achievements = resume.Achievements
	}
	normalizeSlices(content)
}

// normalizeSlices keeps the JSON shape stable across provenance paths.
func normalizeSlices(c *types.ResumeContent) {
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

// --- section-enhance ---

var sectionEnhanceSpec = opSpec{
	params:       llm.GenerateParams{Temperature: 0.3, MaxOutputTokens: 1024, JSONResponse: true},
	timeoutScale: 0.75,
	prompt: func(req *types.GenerationRequest) (string, error) {
		template, err := prompts.Get("section_enhance")
		if err != nil {
			return "", err
		}
		return prompts.Format(template, map[string]string{
			"Role":    req.TargetRole,
			"Level":   levelLabel(req.IsFresher),
			"Section": req.Section,
			"Content": sectionText(&req.Resume, req.Section),
		}), nil
	},
	parse: func(req *types.GenerationRequest, raw string) (*types.GenerationResult, error) {
		repaired, err := repairAndValidate("section_enhance", raw)
		if err != nil {
			return nil, err
		}
		var section types.SectionContent
		if err := json.Unmarshal(repaired, &section); err != nil {
			return nil, err
		}
		section.Section = req.Section

		result := types.NewResult(types.OpSectionEnhance, types.ProvenanceAI)
		result.Section = &section
		return result, nil
	},
	local: func(engine *synthesis.Engine, req *types.GenerationRequest) *types.GenerationResult {
		result := types.NewResult(types.OpSectionEnhance, types.ProvenanceLocal)
		result.Section = engine.EnhanceSection(req, req.Section)
		return result
	},
}

// sectionText flattens the requested section into prompt text.
func sectionText(resume *types.ResumeData, section string) string {
	switch strings.ToLower(strings.TrimSpace(section)) {
	case "summary":
		return resume.Summary
	case "objective":
		return resume.Objective
	case "skills":
		return strings.Join(resume.Skills.Technical, ", ")
	case "achievements":
		return strings.Join(resume.Achievements, "\n")
	case "experience":
		var sb strings.Builder
		for _, exp := range resume.Experience {
			fmt.Fprintf(&sb, "%s at %s (%s): %s\n", exp.Title, exp.Company, exp.Duration, exp.Description)
		}
		return sb.String()
	case "projects":
		var sb strings.Builder
		for _, p := range resume.Projects {
			fmt.Fprintf(&sb, "%s [%s]: %s\n", p.Name, strings.Join(p.Technologies, ", "), p.Description)
		}
		return sb.String()
	default:
		return ""
	}
}

// --- profile-summary ---

var profileSummarySpec = opSpec{
	params:       llm.GenerateParams{Temperature: 0.4, MaxOutputTokens: 512, JSONResponse: true},
	timeoutScale: 0.75,
	prompt: func(req *types.GenerationRequest) (string, error) {
		template, err := prompts.Get("profile_summary")
		if err != nil {
			return "", err
		}
		return prompts.Format(template, map[string]string{
			"Role":   req.TargetRole,
			"Level":  levelLabel(req.IsFresher),
			"Years":  fmt.Sprintf("%d", req.YearsExperience),
			"Skills": strings.Join(req.Resume.Skills.Technical, ", "),
		}), nil
	},
	parse: func(req *types.GenerationRequest, raw string) (*types.GenerationResult, error) {
		repaired, err := repairAndValidate("profile_summary", raw)
		if err != nil {
			return nil, err
		}
		var profile types.ProfileSummary
		if err := json.Unmarshal(repaired, &profile); err != nil {
			return nil, err
		}

		result := types.NewResult(types.OpProfileSummary, types.ProvenanceAI)
		result.Profile = &profile
		return result, nil
	},
	local: func(engine *synthesis.Engine, req *types.GenerationRequest) *types.GenerationResult {
		result := types.NewResult(types.OpProfileSummary, types.ProvenanceLocal)
		result.Profile = engine.ProfileSummary(req)
		return result
	},
}

// --- ats-score ---

var atsScoreSpec = opSpec{
	params:       llm.GenerateParams{Temperature: 0.1, MaxOutputTokens: 1024, JSONResponse: true},
	timeoutScale: 1.0,
	prompt: func(req *types.GenerationRequest) (string, error) {
		template, err := prompts.Get("ats_score")
		if err != nil {
			return "", err
		}
		resumeJSON, err := json.Marshal(req.Resume)
		if err != nil {
			return "", err
		}
		jdClause := ""
		if req.JobDescription != "" {
			jdClause = " Match against this job description:\n" + req.JobDescription
		}
		role := req.TargetRole
		if role == "" {
			role = "Software Engineer"
		}
		return prompts.Format(template, map[string]string{
			"Role":                 role,
			"Resume":               string(resumeJSON),
			"JobDescriptionClause": jdClause,
		}), nil
	},
	parse: func(req *types.GenerationRequest, raw string) (*types.GenerationResult, error) {
		repaired, err := repairAndValidate("ats_score", raw)
		if err != nil {
			return nil, err
		}
		var ats types.ATSResult
		if err := json.Unmarshal(repaired, &ats); err != nil {
			return nil, err
		}
		ats.ComputedAt = time.Now()
		if ats.KeywordsMatched == nil {
			ats.KeywordsMatched = []string{}
		}
		if ats.KeywordsMissing == nil {
			ats.KeywordsMissing = []string{}
		}
		if ats.Suggestions == nil {
			ats.Suggestions = []string{}
		}

		result := types.NewResult(types.OpATSScore, types.ProvenanceAI)
		result.ATS = &ats
		return result, nil
	},
	local: func(engine *synthesis.Engine, req *types.GenerationRequest) *types.GenerationResult {
		result := types.NewResult(types.OpATSScore, types.ProvenanceLocal)
		result.ATS = engine.ATSScore(req)
		return result
	},
}

// --- multi-section-enhance ---

// enhanceSections composes the single-section pipeline per requested
// section. Each section shares the same resilience state, so a breaker trip
// or quota exhaustion midway degrades the remaining sections to the local
// path instead of failing the batch.
func (s *Service) enhanceSections(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	sections := make(map[string]types.SectionContent, len(req.Sections))
	provenance := types.ProvenanceAI

	for _, name := range req.Sections {
		sub := *req
		sub.Kind = types.OpSectionEnhance
		sub.Section = name
		sub.Sections = nil

		result, err := s.Generate(ctx, &sub)
		if err != nil {
			return nil, err
		}
		if result.Provenance == types.ProvenanceLocal {
			provenance = types.ProvenanceLocal
		}
		if result.Section != nil {
			sections[name] = *result.Section
		}
	}

	result := types.NewResult(types.OpMultiSectionEnhance, provenance)
	result.Sections = sections
	return result, nil
}
