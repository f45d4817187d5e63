package docs

import (
	"strings"
	"unicode/utf8"
)

// flatText accumulates flattened document text. Offsets are character (rune)
// positions; the running length is advanced on every append and never
// recomputed from the accumulated text.
type flatText struct {
	b strings.Builder
	n int
}

// Append writes s to the end of the text and returns the offset at which it starts.
func (f *flatText) Append(s string) int {
	start := f.n
	f.b.WriteString(s)
	f.n += utf8.RuneCountInString(s)
	return start
}

// Len returns the number of characters appended so far.
func (f *flatText) Len() int {
	return f.n
}

func (f *flatText) String() string {
	return f.b.String()
}
