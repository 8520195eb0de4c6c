// Package main implements the resume_assistant CLI for resilient resume content generation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate complete resume content for a target role",
	Long:  "Generates a full set of resume content (summary, objective, enriched projects and education, achievements, improvement suggestions) for the target role. Uses the remote model when available and falls back to local synthesis otherwise.",
	RunE:  runGenerate,
}

var (
	generateInputFile  string
	generateOutputFile string
	generateRole       string
	generateFresher    bool
	generateYears      int
	generateConfigFile string
	generateAPIKey     string
	generateVerbose    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateInputFile, "in", "i", "", "Path to resume JSON file (required)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	generateCmd.Flags().StringVarP(&generateRole, "role", "r", "", "Target role, e.g. \"frontend developer\" (required)")
	generateCmd.Flags().BoolVar(&generateFresher, "fresher", false, "Treat the candidate as a fresher")
	generateCmd.Flags().IntVar(&generateYears, "years", 0, "Years of professional experience")
	generateCmd.Flags().StringVar(&generateConfigFile, "config", "", "Path to config JSON file")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print formatted output and service state")

	if err := generateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(generateConfigFile, generateAPIKey, generateVerbose)
	if err != nil {
		return err
	}

	resume, err := readResumeFile(generateInputFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	req := &types.GenerationRequest{
		Kind:            types.OpResumeContent,
		TargetRole:      generateRole,
		IsFresher:       generateFresher,
		YearsExperience: generateYears,
		Resume:          resume,
	}

	result, err := service.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate resume content: %w", err)
	}

	if err := writeResultJSON(generateOutputFile, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintResult(result)
		printer.PrintServiceStats(service.BreakerState().String(), service.CallsToday(), cfg.DailyCallLimit, service.CacheSize())
	}
	if generateOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Generated resume content (%s) saved to %s\n", result.Provenance, generateOutputFile)
	}

	return nil
}
