package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/spf13/cobra"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Enhance one or more resume sections",
	Long:  "Rewrites the named resume sections (summary, objective, skills, experience, projects, achievements) for the target role. With --sections, each section is enhanced independently and failures degrade per section rather than failing the batch.",
	RunE:  runEnhance,
}

var (
	enhanceInputFile  string
	enhanceOutputFile string
	enhanceRole       string
	enhanceFresher    bool
	enhanceSection    string
	enhanceSections   []string
	enhanceConfigFile string
	enhanceAPIKey     string
	enhanceVerbose    bool
)

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceInputFile, "in", "i", "", "Path to resume JSON file (required)")
	enhanceCmd.Flags().StringVarP(&enhanceOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	enhanceCmd.Flags().StringVarP(&enhanceRole, "role", "r", "", "Target role (required)")
	enhanceCmd.Flags().BoolVar(&enhanceFresher, "fresher", false, "Treat the candidate as a fresher")
	enhanceCmd.Flags().StringVarP(&enhanceSection, "section", "s", "", "Single section to enhance")
	enhanceCmd.Flags().StringSliceVar(&enhanceSections, "sections", nil, "Comma-separated list of sections to enhance")
	enhanceCmd.Flags().StringVar(&enhanceConfigFile, "config", "", "Path to config JSON file")
	enhanceCmd.Flags().StringVar(&enhanceAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	enhanceCmd.Flags().BoolVarP(&enhanceVerbose, "verbose", "v", false, "Print formatted output and service state")

	if err := enhanceCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := enhanceCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}

	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(_ *cobra.Command, _ []string) error {
	if enhanceSection == "" && len(enhanceSections) == 0 {
		return fmt.Errorf("either --section or --sections is required")
	}
	if enhanceSection != "" && len(enhanceSections) > 0 {
		return fmt.Errorf("--section and --sections are mutually exclusive")
	}

	cfg, err := loadRuntimeConfig(enhanceConfigFile, enhanceAPIKey, enhanceVerbose)
	if err != nil {
		return err
	}

	resume, err := readResumeFile(enhanceInputFile)
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
		TargetRole: enhanceRole,
		IsFresher:  enhanceFresher,
		Resume:     resume,
	}
	if enhanceSection != "" {
		req.Kind = types.OpSectionEnhance
		req.Section = enhanceSection
	} else {
		req.Kind = types.OpMultiSectionEnhance
		req.Sections = enhanceSections
	}

	result, err := service.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to enhance sections: %w", err)
	}

	if err := writeResultJSON(enhanceOutputFile, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintResult(result)
		printer.PrintServiceStats(service.BreakerState().String(), service.CallsToday(), cfg.DailyCallLimit, service.CacheSize())
	}
	if enhanceOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Enhanced sections (%s) saved to %s\n", result.Provenance, enhanceOutputFile)
	}

	return nil
}
