package docs

import "fmt"

// FormatKind is the styling a FormatSpan applies.
type FormatKind int

const (
	// FormatHeading1 styles a paragraph as HEADING_1
	FormatHeading1 FormatKind = iota + 1
	// FormatHeading2 styles a paragraph as HEADING_2
	FormatHeading2
	// FormatBold makes a run of text bold
	FormatBold
)

func (k FormatKind) String() string {
	switch k {
	case FormatHeading1:
		return "heading1"
	case FormatHeading2:
		return "heading2"
	case FormatBold:
		return "bold"
	default:
		return fmt.Sprintf("FormatKind(%d)", int(k))
	}
}

// HeadingLevel returns 1 or 2 for heading kinds and 0 otherwise
func (k FormatKind) HeadingLevel() int {
	switch k {
	case FormatHeading1:
		return 1
	case FormatHeading2:
		return 2
	default:
		return 0
	}
}

// MarshalText renders the kind by name in JSON output
func (k FormatKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FormatKind) UnmarshalText(text []byte) error {
	for _, kind := range []FormatKind{FormatHeading1, FormatHeading2, FormatBold} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown format kind %q", text)
}

// FormatSpan is a half-open character range [Start, End) of flattened text
// together with the styling to apply to it.
type FormatSpan struct {
	Start int        `json:"start"`
	End   int        `json:"end"`
	Kind  FormatKind `json:"kind"`
}

// Len returns the number of characters the span covers
func (s FormatSpan) Len() int {
	return s.End - s.Start
}

// Shift returns the span moved by delta characters
func (s FormatSpan) Shift(delta int) FormatSpan {
	s.Start += delta
	s.End += delta
	return s
}

// spanCollector gathers spans in flattened-text coordinates. Empty spans are
// dropped on the way in.
type spanCollector struct {
	spans []FormatSpan
}

func (c *spanCollector) add(span FormatSpan) {
	if span.Start >= span.End {
		return
	}
	c.spans = append(c.spans, span)
}

// addAt records line-relative spans against the line's starting offset
func (c *spanCollector) addAt(base int, spans []FormatSpan) {
	for _, span := range spans {
		c.add(span.Shift(base))
	}
}
