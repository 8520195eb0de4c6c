package repair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ValidInputUnchanged(t *testing.T) {
	input := `{"summary": "Built services in Go", "score": 72}`
	assert.Equal(t, input, JSON(input))
}

func TestJSON_StripsMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "unterminated fence",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JSON(tt.input))
		})
	}
}

func TestJSON_UnescapesOverEscapedQuotes(t *testing.T) {
	input := `{\"summary\": \"text\"}`
	got := JSON(input)
	assert.Equal(t, `{"summary": "text"}`, got)
}

func TestJSON_LeavesLegitimateEscapesAlone(t *testing.T) {
	// Doubled backslash-quote means escapes are probably intentional.
	input := `{"quote": "he said \\"hi\\""}`
	assert.Equal(t, input, JSON(input))
}

func TestJSON_RemovesTrailingCommas(t *testing.T) {
	input := `{"skills": ["Go", "SQL",], "years": 3,}`
	got := JSON(input)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Len(t, parsed["skills"], 2)
}

func TestJSON_InsertsMissingCommaBetweenDelimiters(t *testing.T) {
	input := `[{"a": 1} {"b": 2}]`
	got := JSON(input)

	var parsed []map[string]int
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Len(t, parsed, 2)
}

func TestJSON_StripsControlCharacters(t *testing.T) {
	input := "{\"a\": \"x\x00y\x07z\"}"
	got := JSON(input)
	assert.Equal(t, `{"a": "xyz"}`, got)
}

func TestJSON_ClosesTruncatedStructures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing brace", input: `{"a": {"b": 1}`},
		{name: "missing bracket", input: `{"a": [1, 2`},
		{name: "nested truncation", input: `{"a": {"b": [1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSON(tt.input)
			var parsed any
			assert.NoError(t, json.Unmarshal([]byte(got), &parsed), "repaired: %s", got)
		})
	}
}

func TestJSON_ClosesOddQuote(t *testing.T) {
	// A truncated string gets its quote closed after the delimiters, so the
	// output is balanced but not necessarily parseable. The caller's parse
	// step decides whether the repair was good enough.
	got := JSON(`{"summary": "cut off`)
	assert.Equal(t, `{"summary": "cut off}"`, got)
	assert.Equal(t, got, JSON(got))
}

func TestJSON_DropsDanglingBackslashBeforeClosingQuote(t *testing.T) {
	// A truncated string ending mid-escape must not turn the appended quote
	// into an escaped one, or a later pass would strip it again.
	got := JSON("\"abc\\")
	assert.Equal(t, `"abc"`, got)
	assert.Equal(t, got, JSON(got))
}

func TestJSON_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a": 1}`,
		"```json\n{\"a\": [1, 2,}\n```",
		`{"summary": "trunc`,
		`{\"over\": \"escaped\"}`,
		`[{"a": 1} {"b": 2},]`,
		"\"abc\\",
		"",
		"not json at all",
	}

	for _, input := range inputs {
		once := JSON(input)
		assert.Equal(t, once, JSON(once), "input: %q", input)
	}
}

func TestJSON_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{"", "\x00\x01\x02", "}}}}", `""""`, "```", "\\\\\\"}
	for _, input := range inputs {
		assert.NotPanics(t, func() { JSON(input) })
	}
}
