package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-assistant/internal/repair"
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair malformed JSON text",
	Long:  "Applies the model-output repair pipeline (fence stripping, unescaping, comma fixes, delimiter balancing) to a text file and reports whether the result parses as JSON.",
	RunE:  runRepair,
}

var (
	repairInputFile  string
	repairOutputFile string
)

func init() {
	repairCmd.Flags().StringVarP(&repairInputFile, "in", "i", "", "Path to malformed JSON file (required)")
	repairCmd.Flags().StringVarP(&repairOutputFile, "out", "o", "", "Path to output file (default: stdout)")

	if err := repairCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(repairCmd)
}

func runRepair(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(repairInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	repaired := repair.JSON(string(content))

	if repairOutputFile == "" {
		_, _ = fmt.Fprintln(os.Stdout, repaired)
	} else {
		if err := os.WriteFile(repairOutputFile, []byte(repaired), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	var probe any
	if err := json.Unmarshal([]byte(repaired), &probe); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: repaired text is still not valid JSON")
	}

	return nil
}
