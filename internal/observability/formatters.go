// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult dispatches on the result kind and prints the matching payload.
func (p *Printer) PrintResult(result *types.GenerationResult) {
	if result == nil {
		return
	}
	switch result.Kind {
	case types.OpResumeContent:
		p.PrintResumeContent(result.Content, result.Provenance)
	case types.OpSectionEnhance:
		if result.Section != nil {
			p.PrintSections(map[string]types.SectionContent{result.Section.Section: *result.Section}, result.Provenance)
		}
	case types.OpMultiSectionEnhance:
		p.PrintSections(result.Sections, result.Provenance)
	case types.OpProfileSummary:
		p.PrintProfileSummary(result.Profile, result.Provenance)
	case types.OpATSScore:
		p.PrintATSResult(result.ATS, result.Provenance)
	}
}

// PrintResumeContent outputs a human-readable summary of generated resume content.
func (p *Printer) PrintResumeContent(content *types.ResumeContent, provenance types.Provenance) {
	if content == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Source:  %s\n\n", provenance))
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  %s\n\n", content.Summary))

	if len(content.Skills.Technical) > 0 {
		skills := strings.Join(content.Skills.Technical, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:  %s\n", skills))
	}
	sb.WriteString(fmt.Sprintf("Projects:     %d\n", len(content.Projects)))
	sb.WriteString(fmt.Sprintf("Achievements: %d\n", len(content.Achievements)))

	if len(content.Improvements) > 0 {
		sb.WriteString("\nSuggested improvements:\n")
		count := min(len(content.Improvements), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", content.Improvements[i]))
		}
		if len(content.Improvements) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(content.Improvements)-maxItemsToShow))
		}
	}

	p.printBox("GENERATED RESUME CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs enhanced sections keyed by section name.
func (p *Printer) PrintSections(sections map[string]types.SectionContent, provenance types.Provenance) {
	if len(sections) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", provenance))

	for name, section := range sections {
		sb.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(name)))
		for _, line := range strings.Split(section.Enhanced, "\n") {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	p.printBox("ENHANCED SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfileSummary outputs the generated profile summary and objective.
func (p *Printer) PrintProfileSummary(profile *types.ProfileSummary, provenance types.Provenance) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n\n", provenance))
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  %s\n", profile.Summary))
	if profile.Objective != "" {
		sb.WriteString("\nObjective:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", profile.Objective))
	}

	p.printBox("PROFILE SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintATSResult outputs the ATS score with matched and missing keywords.
func (p *Printer) PrintATSResult(ats *types.ATSResult, provenance types.Provenance) {
	if ats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", provenance))
	sb.WriteString(fmt.Sprintf("Score:  %d / 100\n\n", ats.Score))
	sb.WriteString(fmt.Sprintf("%s\n", ats.Summary))

	if len(ats.KeywordsMatched) > 0 {
		sb.WriteString("\nMatched keywords:\n")
		count := min(len(ats.KeywordsMatched), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", ats.KeywordsMatched[i]))
		}
		if len(ats.KeywordsMatched) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ats.KeywordsMatched)-maxItemsToShow))
		}
	}

	if len(ats.KeywordsMissing) > 0 {
		sb.WriteString("\nMissing keywords:\n")
		count := min(len(ats.KeywordsMissing), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", ats.KeywordsMissing[i]))
		}
		if len(ats.KeywordsMissing) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ats.KeywordsMissing)-maxItemsToShow))
		}
	}

	if len(ats.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		count := min(len(ats.Suggestions), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", ats.Suggestions[i]))
		}
	}

	p.printBox("ATS COMPATIBILITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintServiceStats outputs the resilience counters after a run.
func (p *Printer) PrintServiceStats(breakerState string, callsToday, dailyLimit, cacheSize int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Breaker:     %s\n", breakerState))
	sb.WriteString(fmt.Sprintf("Calls today: %d / %d\n", callsToday, dailyLimit))
	sb.WriteString(fmt.Sprintf("Cached:      %d results", cacheSize))

	p.printBox("SERVICE STATE", sb.String())
}
