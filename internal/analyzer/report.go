package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// TitleLayout formats generated document titles (MMDDYYYY)
	TitleLayout = "01022006"
	// GeneratedLayout formats the generation time of combined reports
	GeneratedLayout = "January 02, 2006 at 03:04 PM"

	filenameTimeLayout = "20060102_150405"
	maxTopicFilename   = 50
)

// ErrNoResults is returned when there is no successful analysis to report
var ErrNoResults = errors.New("no valid analyses to save")

var sectionSeparator = "\n" + strings.Repeat("=", 80) + "\n\n"

// ComposeReport renders a single analysis as a markdown-like document
func ComposeReport(r Result) string {
	var b strings.Builder
	writeSectionHeader(&b, "# "+r.Topic, r.Date)
	b.WriteString(r.Analysis)
	return b.String()
}

// ComposeCombinedReport renders all successful results into one document.
// Results carrying an error are left out; ErrNoResults is returned when none
// remain.
func ComposeCombinedReport(results []Result, generated time.Time) (string, int, error) {
	valid := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Failed() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return "", 0, ErrNoResults
	}

	var b strings.Builder
	b.WriteString("# Combined Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", generated.Format(GeneratedLayout))
	fmt.Fprintf(&b, "**Total Transcripts:** %d\n\n", len(valid))
	b.WriteString("---\n\n")

	for i, r := range valid {
		writeSectionHeader(&b, fmt.Sprintf("# %d. %s", i+1, r.Topic), r.Date)
		b.WriteString(r.Analysis)
		b.WriteString("\n\n")
		if i < len(valid)-1 {
			b.WriteString(sectionSeparator)
		}
	}
	return b.String(), len(valid), nil
}

func writeSectionHeader(b *strings.Builder, heading, date string) {
	b.WriteString(heading)
	b.WriteString("\n")
	fmt.Fprintf(b, "**Date:** %s\n\n", date)
	b.WriteString("---\n\n")
}

// DocumentTitle returns the title of a document generated at t
func DocumentTitle(t time.Time) string {
	return t.Format(TitleLayout)
}

// LocalFilename returns the file name used when a report for topic is saved
// locally. An empty topic names a combined report.
func LocalFilename(topic string, t time.Time) string {
	name := "combined"
	if topic != "" {
		name = safeTopic(topic)
	}
	return fmt.Sprintf("analysis_%s_%s.md", name, t.Format(filenameTimeLayout))
}

// safeTopic keeps letters, digits, spaces, '-' and '_', then swaps spaces
// for underscores and caps the length
func safeTopic(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if runes := []rune(safe); len(runes) > maxTopicFilename {
		safe = string(runes[:maxTopicFilename])
	}
	return safe
}
