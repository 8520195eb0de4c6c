package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/generation"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/types"
)

// loadRuntimeConfig resolves the effective config from the optional config
// file, environment, and flag overrides, in increasing precedence.
func loadRuntimeConfig(configPath, apiKey string, verbose bool) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.FromEnv()
	}

	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newService builds the generation service and, when a credential is
// configured, the Gemini client behind it. The returned closer releases the
// client connection; it is safe to call when no client was created.
func newService(ctx context.Context, cfg *config.Config) (*generation.Service, func(), error) {
	logLevel := slog.LevelWarn
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	var client llm.Client
	closer := func() {}
	if cfg.RemoteEnabled() {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		client = geminiClient
		closer = func() { _ = geminiClient.Close() }
	}

	return generation.New(cfg, client, logger), closer, nil
}

// readResumeFile loads and unmarshals the resume JSON input.
func readResumeFile(path string) (types.ResumeData, error) {
	var resume types.ResumeData

	content, err := os.ReadFile(path)
	if err != nil {
		return resume, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := json.Unmarshal(content, &resume); err != nil {
		return resume, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	return resume, nil
}

// writeResultJSON writes the result to the output path, or to stdout when
// no path is given.
func writeResultJSON(path string, result *types.GenerationResult) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if path == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
