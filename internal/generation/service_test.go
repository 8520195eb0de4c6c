package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/resilience"
	"github.com/jonathan/resume-assistant/internal/types"
)

// fakeClient scripts the remote model for tests. Each call consumes the
// next scripted response; when the script runs out the last entry repeats.
type fakeClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (f *fakeClient) Generate(_ context.Context, _ string, _ llm.GenerateParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.APIKey = "test-key"
	cfg.MinCallInterval = config.Duration(time.Millisecond)
	cfg.RequestTimeout = config.Duration(2 * time.Second)
	return cfg
}

func fresherRequest(role string) *types.GenerationRequest {
	return &types.GenerationRequest{
		Kind:       types.OpResumeContent,
		TargetRole: role,
		IsFresher:  true,
		Resume: types.ResumeData{
			PersonalInfo: types.PersonalInfo{Name: "Priya Sharma", Email: "priya@example.com"},
			Skills:       types.Skills{Technical: []string{"React", "CSS"}},
		},
	}
}

const validResumeContentJSON = `{
	"summary": "Model-written summary for the target role.",
	"objective": "Model-written objective.",
	"skills": {"technical": ["React", "CSS"], "soft": ["Communication"]},
	"projects": [{"name": "Portfolio Site", "description": "Personal portfolio.", "technologies": ["React"]}],
	"achievements": ["Shipped a production feature"],
	"improvements": ["Add measurable outcomes to experience entries"]
}`

func TestGenerate_RejectsInvalidRequest(t *testing.T) {
	svc := New(testConfig(), nil, nil)

	cases := []struct {
		name string
		req  *types.GenerationRequest
	}{
		{"nil request", nil},
		{"missing kind", &types.GenerationRequest{TargetRole: "frontend developer"}},
		{"unknown kind", &types.GenerationRequest{Kind: "translate", TargetRole: "frontend developer"}},
		{"missing role", &types.GenerationRequest{Kind: types.OpResumeContent}},
		{"section enhance without section", &types.GenerationRequest{Kind: types.OpSectionEnhance, TargetRole: "frontend developer"}},
		{"negative years", &types.GenerationRequest{Kind: types.OpResumeContent, TargetRole: "frontend developer", YearsExperience: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Generate(context.Background(), tc.req)
			require.Error(t, err)
			assert.Nil(t, result)

			var reqErr *RequestError
			assert.ErrorAs(t, err, &reqErr)
		})
	}
}

func TestGenerate_RemoteSuccess(t *testing.T) {
	client := &fakeClient{responses: []string{validResumeContentJSON}}
	svc := New(testConfig(), client, nil)

	result, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, types.ProvenanceAI, result.Provenance)
	assert.Equal(t, types.OpResumeContent, result.Kind)
	require.NotNil(t, result.Content)
	assert.Equal(t, "Model-written summary for the target role.", result.Content.Summary)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 1, svc.CallsToday())
}

func TestGenerate_RepairsMalformedButRecoverableResponse(t *testing.T) {
	// Fenced, trailing-comma response that only parses after repair.
	raw := "```json\n{\"section\": \"summary\", \"enhanced\": \"Polished summary text.\",}\n```"
	client := &fakeClient{responses: []string{raw}}
	svc := New(testConfig(), client, nil)

	req := fresherRequest("frontend developer")
	req.Kind = types.OpSectionEnhance
	req.Section = "summary"

	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.ProvenanceAI, result.Provenance)
	require.NotNil(t, result.Section)
	assert.Equal(t, "Polished summary text.", result.Section.Enhanced)
}

func TestGenerate_CachesByFingerprint(t *testing.T) {
	client := &fakeClient{responses: []string{validResumeContentJSON}}
	svc := New(testConfig(), client, nil)

	first, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 1, svc.CacheSize())
}

func TestGenerate_CacheHitSurvivesProviderOutage(t *testing.T) {
	client := &fakeClient{responses: []string{validResumeContentJSON}}
	svc := New(testConfig(), client, nil)

	first, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	require.Equal(t, types.ProvenanceAI, first.Provenance)

	// Provider goes down; the cached AI result must still be served as-is.
	client.mu.Lock()
	client.err = errors.New("503 service unavailable")
	client.mu.Unlock()

	second, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, types.ProvenanceAI, second.Provenance)
}

func TestGenerate_UnrepairableResponseFallsBackWithoutRetry(t *testing.T) {
	client := &fakeClient{responses: []string{"I am sorry, I cannot help with that."}}
	svc := New(testConfig(), client, nil)

	result, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)

	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	require.NotNil(t, result.Content)
	assert.NotEmpty(t, result.Content.Summary)
	// Malformed output is not a transport fault; no second attempt.
	assert.Equal(t, 1, client.callCount())
}

func TestGenerate_SchemaViolationFallsBack(t *testing.T) {
	// Valid JSON, wrong shape: missing the required summary and skills.
	client := &fakeClient{responses: []string{`{"objective": "only this"}`}}
	svc := New(testConfig(), client, nil)

	result, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
}

func TestGenerate_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAttempts = 1
	client := &fakeClient{err: errors.New("503 service overloaded")}
	svc := New(cfg, client, nil)

	for i, role := range []string{"frontend developer", "backend developer", "data scientist"} {
		result, err := svc.Generate(context.Background(), fresherRequest(role))
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	}
	require.Equal(t, 3, client.callCount())
	assert.Equal(t, resilience.StateOpen, svc.BreakerState())

	// Open breaker short-circuits before the client is touched.
	result, err := svc.Generate(context.Background(), fresherRequest("devops engineer"))
	require.NoError(t, err)
	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	assert.Equal(t, 3, client.callCount())
}

func TestGenerate_QuotaExhaustionDegradesToLocal(t *testing.T) {
	cfg := testConfig()
	cfg.DailyCallLimit = 1
	client := &fakeClient{responses: []string{validResumeContentJSON}}
	svc := New(cfg, client, nil)

	first, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)
	assert.Equal(t, types.ProvenanceAI, first.Provenance)

	second, err := svc.Generate(context.Background(), fresherRequest("backend developer"))
	require.NoError(t, err)
	assert.Equal(t, types.ProvenanceLocal, second.Provenance)
	assert.Equal(t, 1, client.callCount())
}

func TestGenerate_ProviderErrorsNeverEscape(t *testing.T) {
	kinds := []struct {
		name string
		req  *types.GenerationRequest
	}{
		{"resume content", fresherRequest("frontend developer")},
		{"section enhance", func() *types.GenerationRequest {
			r := fresherRequest("frontend developer")
			r.Kind = types.OpSectionEnhance
			r.Section = "summary"
			return r
		}()},
		{"profile summary", func() *types.GenerationRequest {
			r := fresherRequest("frontend developer")
			r.Kind = types.OpProfileSummary
			return r
		}()},
		{"ats score", func() *types.GenerationRequest {
			r := fresherRequest("frontend developer")
			r.Kind = types.OpATSScore
			return r
		}()},
	}
	for _, tc := range kinds {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxAttempts = 1
			client := &fakeClient{err: errors.New("connection reset by peer")}
			svc := New(cfg, client, nil)

			result, err := svc.Generate(context.Background(), tc.req)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, types.ProvenanceLocal, result.Provenance)
		})
	}
}

func TestGenerate_LocalFresherEndToEnd(t *testing.T) {
	svc := New(testConfig(), nil, nil) // no client configured

	result, err := svc.Generate(context.Background(), fresherRequest("frontend developer"))
	require.NoError(t, err)

	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	require.NotNil(t, result.Content)
	assert.Contains(t, result.Content.Summary, "React, CSS")
	assert.NotNil(t, result.Content.Projects)
	assert.NotNil(t, result.Content.Achievements)
	assert.NotNil(t, result.Content.Improvements)
}

func TestGenerate_RemoteOutputNeverOverwritesCallerFields(t *testing.T) {
	client := &fakeClient{responses: []string{validResumeContentJSON}}
	svc := New(testConfig(), client, nil)

	req := fresherRequest("frontend developer")
	req.Resume.Summary = "Caller-provided summary that must survive."

	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, types.ProvenanceAI, result.Provenance)
	assert.Equal(t, "Caller-provided summary that must survive.", result.Content.Summary)
	assert.Equal(t, []string{"React", "CSS"}, result.Content.Skills.Technical)
}

func TestGenerate_MultiSectionComposesSingleSections(t *testing.T) {
	svc := New(testConfig(), nil, nil)

	req := fresherRequest("frontend developer")
	req.Kind = types.OpMultiSectionEnhance
	req.Sections = []string{"summary", "objective", "skills"}

	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.OpMultiSectionEnhance, result.Kind)
	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	require.Len(t, result.Sections, 3)
	for _, name := range req.Sections {
		section, ok := result.Sections[name]
		require.True(t, ok, "missing section %q", name)
		assert.NotEmpty(t, section.Enhanced)
	}
}

func TestGenerate_MultiSectionProvenanceIsLocalIfAnySectionIsLocal(t *testing.T) {
	cfg := testConfig()
	cfg.DailyCallLimit = 1
	cfg.MaxAttempts = 1
	client := &fakeClient{responses: []string{`{"section": "summary", "enhanced": "AI summary."}`}}
	svc := New(cfg, client, nil)

	req := fresherRequest("frontend developer")
	req.Kind = types.OpMultiSectionEnhance
	req.Sections = []string{"summary", "objective"}

	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	// First section lands remotely, the quota then forces the second local.
	assert.Equal(t, types.ProvenanceLocal, result.Provenance)
	assert.Equal(t, "AI summary.", result.Sections["summary"].Enhanced)
	assert.NotEmpty(t, result.Sections["objective"].Enhanced)
}

func TestGenerate_ResultShapeStableAcrossProvenance(t *testing.T) {
	remote := New(testConfig(), &fakeClient{responses: []string{validResumeContentJSON}}, nil)
	local := New(testConfig(), nil, nil)

	req := fresherRequest("frontend developer")
	aiResult, err := remote.Generate(context.Background(), req)
	require.NoError(t, err)
	localResult, err := local.Generate(context.Background(), req)
	require.NoError(t, err)

	for _, result := range []*types.GenerationResult{aiResult, localResult} {
		assert.Equal(t, types.OpResumeContent, result.Kind)
		require.NotNil(t, result.Content)
		assert.NotEmpty(t, result.Content.Summary)
		assert.NotNil(t, result.Content.Skills.Technical)
		assert.NotNil(t, result.Content.Projects)
		assert.NotNil(t, result.Content.Achievements)
		assert.NotNil(t, result.Content.Improvements)
	}
}

func TestGenerate_SparseResumeATSEndToEnd(t *testing.T) {
	svc := New(testConfig(), nil, nil)

	req := &types.GenerationRequest{
		Kind: types.OpATSScore,
		Resume: types.ResumeData{
			PersonalInfo: types.PersonalInfo{Name: "A"},
		},
	}
	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.ATS)
	assert.GreaterOrEqual(t, result.ATS.Score, 35)
	assert.Less(t, result.ATS.Score, 50)
	assert.Empty(t, result.ATS.KeywordsMatched)
	assert.NotEmpty(t, result.ATS.Suggestions)
}
