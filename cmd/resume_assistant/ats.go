package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats",
	Short: "Score resume completeness and keyword coverage",
	Long:  "Computes an ATS compatibility score for the resume: weighted completeness across sections plus keyword coverage against the expected vocabulary for the target role, optionally matched against a job description.",
	RunE:  runATS,
}

var (
	atsInputFile  string
	atsOutputFile string
	atsRole       string
	atsJDFile     string
	atsConfigFile string
	atsAPIKey     string
	atsVerbose    bool
)

func init() {
	atsCmd.Flags().StringVarP(&atsInputFile, "in", "i", "", "Path to resume JSON file (required)")
	atsCmd.Flags().StringVarP(&atsOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	atsCmd.Flags().StringVarP(&atsRole, "role", "r", "", "Target role (default: software engineer)")
	atsCmd.Flags().StringVar(&atsJDFile, "jd", "", "Path to job description text file")
	atsCmd.Flags().StringVar(&atsConfigFile, "config", "", "Path to config JSON file")
	atsCmd.Flags().StringVar(&atsAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	atsCmd.Flags().BoolVarP(&atsVerbose, "verbose", "v", false, "Print formatted output and service state")

	if err := atsCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(atsCmd)
}

func runATS(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(atsConfigFile, atsAPIKey, atsVerbose)
	if err != nil {
		return err
	}

	resume, err := readResumeFile(atsInputFile)
	if err != nil {
		return err
	}

	jobDescription := ""
	if atsJDFile != "" {
		content, err := os.ReadFile(atsJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jobDescription = string(content)
	}

	ctx := context.Background()
	service, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	req := &types.GenerationRequest{
		Kind:           types.OpATSScore,
		TargetRole:     atsRole,
		Resume:         resume,
		JobDescription: jobDescription,
	}

	result, err := service.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}

	if err := writeResultJSON(atsOutputFile, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintResult(result)
		printer.PrintServiceStats(service.BreakerState().String(), service.CallsToday(), cfg.DailyCallLimit, service.CacheSize())
	}
	if atsOutputFile != "" && result.ATS != nil {
		_, _ = fmt.Fprintf(os.Stdout, "ATS score %d (%s) saved to %s\n", result.ATS.Score, result.Provenance, atsOutputFile)
	}

	return nil
}
