// Package repair normalizes near-JSON model output into syntactically
// plausible JSON text before parsing. It is a best-effort brace/quote
// balancer, not a parser: callers must always attempt a real parse afterward
// and treat parse failure as a failure of the remote path.
package repair

import (
	"regexp"
	"strings"
)

var (
	trailingCommaRe   = regexp.MustCompile(`,\s*([}\]])`)
	missingCommaRe    = regexp.MustCompile(`([}\]])\s*([{\[])`)
	codeFencePrefixRe = regexp.MustCompile("^```[a-zA-Z]*\\s*")
)

// JSON applies the repair pipeline to raw model output. It is pure, total,
// and idempotent: JSON(JSON(x)) == JSON(x) for any input.
//
// Steps, in order: strip markdown fences, conservatively unescape
// over-escaped quotes, remove trailing commas, insert commas between
// adjacent delimiters, strip control characters, append missing closing
// delimiters, and close an odd trailing quote.
func JSON(raw string) string {
	text := stripFences(raw)
	text = unescapeQuotes(text)
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = missingCommaRe.ReplaceAllString(text, "$1,$2")
	text = stripControlChars(text)
	text = balanceDelimiters(text)
	text = closeOddQuote(text)
	return text
}

// stripFences trims whitespace and removes markdown code-fence markers.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = codeFencePrefixRe.ReplaceAllString(text, "")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// unescapeQuotes rewrites `\"` to `"` when the whole payload looks
// over-escaped. The doubled-backslash check avoids corrupting content whose
// escapes are legitimate; this remains a heuristic and can misfire on
// strings that embed quotes.
func unescapeQuotes(text string) string {
	if !strings.Contains(text, `\"`) {
		return text
	}
	if strings.Contains(text, `\\"`) {
		return text
	}
	return strings.ReplaceAll(text, `\"`, `"`)
}

// stripControlChars removes ASCII control characters except newline and tab.
func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
}

// balanceDelimiters appends closing brackets/braces for any unmatched
// openers. Counting is character-naive (string contents included), which
// keeps the pass idempotent on already-balanced text.
func balanceDelimiters(text string) string {
	openBraces := strings.Count(text, "{") - strings.Count(text, "}")
	openBrackets := strings.Count(text, "[") - strings.Count(text, "]")
	if openBrackets > 0 {
		text += strings.Repeat("]", openBrackets)
	}
	if openBraces > 0 {
		text += strings.Repeat("}", openBraces)
	}
	return text
}

// closeOddQuote appends one double quote when the unescaped quote count is
// odd, closing a truncated string literal. A dangling trailing backslash is
// dropped first so the appended quote cannot end up in escaped position.
func closeOddQuote(text string) string {
	count := 0
	escaped := false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			count++
		}
	}
	if count%2 == 1 {
		if escaped {
			text = text[:len(text)-1]
		}
		return text + `"`
	}
	return text
}
