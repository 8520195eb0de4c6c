package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate a professional profile summary and objective",
	RunE:  runSummary,
}

var (
	summaryInputFile  string
	summaryOutputFile string
	summaryRole       string
	summaryFresher    bool
	summaryYears      int
	summaryConfigFile string
	summaryAPIKey     string
	summaryVerbose    bool
)

func init() {
	summaryCmd.Flags().StringVarP(&summaryInputFile, "in", "i", "", "Path to resume JSON file (required)")
	summaryCmd.Flags().StringVarP(&summaryOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	summaryCmd.Flags().StringVarP(&summaryRole, "role", "r", "", "Target role (required)")
	summaryCmd.Flags().BoolVar(&summaryFresher, "fresher", false, "Treat the candidate as a fresher")
	summaryCmd.Flags().IntVar(&summaryYears, "years", 0, "Years of professional experience")
	summaryCmd.Flags().StringVar(&summaryConfigFile, "config", "", "Path to config JSON file")
	summaryCmd.Flags().StringVar(&summaryAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	summaryCmd.Flags().BoolVarP(&summaryVerbose, "verbose", "v", false, "Print formatted output and service state")

	if err := summaryCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := summaryCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}

	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(summaryConfigFile, summaryAPIKey, summaryVerbose)
	if err != nil {
		return err
	}

	resume, err := readResumeFile(summaryInputFile)
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
		Kind:            types.OpProfileSummary,
		TargetRole:      summaryRole,
		IsFresher:       summaryFresher,
		YearsExperience: summaryYears,
		Resume:          resume,
	}

	result, err := service.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate profile summary: %w", err)
	}

	if err := writeResultJSON(summaryOutputFile, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintResult(result)
		printer.PrintServiceStats(service.BreakerState().String(), service.CallsToday(), cfg.DailyCallLimit, service.CacheSize())
	}
	if summaryOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Profile summary (%s) saved to %s\n", result.Provenance, summaryOutputFile)
	}

	return nil
}
