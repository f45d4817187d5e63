package analyzer

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You write analyses of meeting transcripts for readers interested in %s.

Read the transcript and write an article that pulls out the ideas, decisions and open
questions most relevant to that audience. Quote speakers where it helps.

Format the answer with this subset of markdown and nothing else:
- "# " for the title and "## " for section headings
- **double asterisks** for emphasis
- a line containing only "---" between major parts
- "> " at the start of a line for quotes
- "• " at the start of a line for list items`

// SystemPrompt returns the instructions sent with every transcript
func SystemPrompt(focus string) string {
	if strings.TrimSpace(focus) == "" {
		focus = DefaultContentFocus
	}
	return fmt.Sprintf(systemPromptTemplate, focus)
}

// TranscriptPrompt returns the user prompt for one transcript
func TranscriptPrompt(t Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", t.Topic)
	if t.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", t.Date)
	}
	b.WriteString("\nTranscript:\n")
	b.WriteString(t.Body)
	return b.String()
}
