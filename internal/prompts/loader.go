// Package prompts provides embedded prompt templates for the remote
// generation path, one per operation kind.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   map[string]string
	cacheMu sync.Mutex
)

// Get retrieves a prompt template by key from the embedded generation.json.
func Get(key string) (string, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cache == nil {
		data, err := promptFiles.ReadFile("generation.json")
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		if err := json.Unmarshal(data, &cache); err != nil {
			return "", fmt.Errorf("failed to parse prompt file: %w", err)
		}
	}

	prompt, ok := cache[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// Format replaces {{.Key}} placeholders in a template with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}
