package docs

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// BlockquoteIndent replaces a leading "> " marker in generated documents
const BlockquoteIndent = "    "

// LineKind classifies one line of markdown-like input.
type LineKind int

const (
	LinePlain LineKind = iota
	LineHeading1
	LineHeading2
	LineRule
	LineBlockquote
	LineBullet
)

func (k LineKind) String() string {
	switch k {
	case LinePlain:
		return "plain"
	case LineHeading1:
		return "heading1"
	case LineHeading2:
		return "heading2"
	case LineRule:
		return "rule"
	case LineBlockquote:
		return "blockquote"
	case LineBullet:
		return "bullet"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// LineResult is what a single input line contributes to the flattened text.
type LineResult struct {
	Kind LineKind
	// Text is the text to append, always terminated by a newline
	Text string
	// Spans are relative to the start of Text
	Spans []FormatSpan
}

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// ClassifyLine classifies a line (without its terminator) and returns the text
// it contributes plus any formatting found on it.
//
// Recognized forms are "# " and "## " headings, "---" and "────" rules,
// **bold** spans, "> " blockquotes (re-indented) and "•" bullets. Anything
// else, including unterminated bold markers, is plain text.
func ClassifyLine(line string) LineResult {
	line = strings.TrimSuffix(line, "\r")

	switch {
	case strings.HasPrefix(line, "## "):
		return headingLine(LineHeading2, FormatHeading2, line[len("## "):])
	case strings.HasPrefix(line, "# "):
		return headingLine(LineHeading1, FormatHeading1, line[len("# "):])
	case isRule(line):
		return LineResult{Kind: LineRule, Text: "\n"}
	}

	text, spans := stripBold(line)
	kind := LinePlain

	trimmed := strings.TrimLeft(text, " \t")
	switch {
	case strings.HasPrefix(trimmed, ">"):
		kind = LineBlockquote
		text, spans = indentBlockquote(text, spans)
	case strings.HasPrefix(trimmed, "•"):
		kind = LineBullet
	}

	return LineResult{Kind: kind, Text: text + "\n", Spans: spans}
}

func headingLine(kind LineKind, format FormatKind, text string) LineResult {
	result := LineResult{Kind: kind, Text: text + "\n"}
	// The terminating newline stays unstyled.
	if n := utf8.RuneCountInString(text); n > 0 {
		result.Spans = []FormatSpan{{Start: 0, End: n, Kind: format}}
	}
	return result
}

func isRule(line string) bool {
	line = strings.TrimSpace(line)
	return line == "---" || strings.HasPrefix(line, "────")
}

// stripBold removes **marker** pairs from line and returns bold spans over the
// stripped text. Positions are taken from the output as it is built, so every
// earlier match on the line has already been subtracted.
func stripBold(line string) (string, []FormatSpan) {
	matches := boldPattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line, nil
	}

	var (
		out   flatText
		spans []FormatSpan
		prev  int
	)
	for _, m := range matches {
		out.Append(line[prev:m[0]])
		start := out.Append(line[m[2]:m[3]])
		spans = append(spans, FormatSpan{Start: start, End: out.Len(), Kind: FormatBold})
		prev = m[1]
	}
	out.Append(line[prev:])
	return out.String(), spans
}

// indentBlockquote swaps leading whitespace and '>' markers for
// BlockquoteIndent and moves spans to match. Spans that only covered the
// removed marker are dropped; spans starting inside it are clipped.
func indentBlockquote(text string, spans []FormatSpan) (string, []FormatSpan) {
	rest := strings.TrimLeft(text, "> \t")
	removed := utf8.RuneCountInString(text) - utf8.RuneCountInString(rest)
	indent := utf8.RuneCountInString(BlockquoteIndent)

	var shifted []FormatSpan
	for _, span := range spans {
		if span.End <= removed {
			continue
		}
		if span.Start < removed {
			span.Start = removed
		}
		shifted = append(shifted, span.Shift(indent-removed))
	}
	return BlockquoteIndent + rest, shifted
}

// Layout is flattened text plus the formatting to replay over it.
type Layout struct {
	Text  string       `json:"text"`
	Spans []FormatSpan `json:"spans"`

	length int
}

// Len returns the length of Text in characters
func (l *Layout) Len() int {
	return l.length
}

// Validate reports the first span that falls outside the text
func (l *Layout) Validate() error {
	for i, span := range l.Spans {
		if span.Start < 0 || span.Start >= span.End || span.End > l.length {
			return fmt.Errorf("span %d [%d,%d) out of bounds for text of length %d", i, span.Start, span.End, l.length)
		}
	}
	return nil
}

// ParseMarkdown flattens markdown-like content line by line and collects the
// formatting spans in flattened-text coordinates.
//
// A trailing newline does not produce an extra empty line, so "a\n" and "a"
// both flatten to "a\n". Empty content yields an empty layout.
func ParseMarkdown(content string) *Layout {
	var (
		out   flatText
		spans spanCollector
	)
	for _, line := range splitLines(content) {
		result := ClassifyLine(line)
		spans.addAt(out.Append(result.Text), result.Spans)
	}
	return &Layout{Text: out.String(), Spans: spans.spans, length: out.Len()}
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}
