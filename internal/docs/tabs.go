package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

const (
	// TranscriptTabName is the tab preferred by default when a document has several tabs
	TranscriptTabName = "Transcript"
	// NotesTabName is the tab used when the preferred tab is missing or not wanted
	NotesTabName = "Notes"
)

// TabSelectionPolicy decides which tab of a multi-tab document is extracted.
//
// Names are matched case-insensitively against tab titles. When
// PreferTranscript is set and a tab named PreferredName exists, it wins.
// Otherwise a tab named FallbackName is used, and when neither exists the
// first tab in document order is taken.
//
// The zero value fills in the Transcript and Notes names but leaves
// PreferTranscript unset, so it selects Notes. Use DefaultTabSelectionPolicy
// for the Transcript-first default.
type TabSelectionPolicy struct {
	PreferredName    string
	FallbackName     string
	PreferTranscript bool
}

// DefaultTabSelectionPolicy returns the Transcript-then-Notes policy
func DefaultTabSelectionPolicy() TabSelectionPolicy {
	return TabSelectionPolicy{
		PreferredName:    TranscriptTabName,
		FallbackName:     NotesTabName,
		PreferTranscript: true,
	}
}

func (p TabSelectionPolicy) withDefaults() TabSelectionPolicy {
	if p.PreferredName == "" {
		p.PreferredName = TranscriptTabName
	}
	if p.FallbackName == "" {
		p.FallbackName = NotesTabName
	}
	return p
}

// SelectionReason records which rule of the policy picked a body.
type SelectionReason string

const (
	// ReasonLegacyBody means the document has no tabs and its top-level body was used
	ReasonLegacyBody SelectionReason = "legacy_body"
	// ReasonPreferred means the preferred tab was found
	ReasonPreferred SelectionReason = "preferred"
	// ReasonFallback means the fallback tab was found
	ReasonFallback SelectionReason = "fallback"
	// ReasonFirstTab means neither named tab exists and the first tab was used
	ReasonFirstTab SelectionReason = "first_tab"
)

// TabSelection is the outcome of SelectTab.
type TabSelection struct {
	// Tab is the selected tab, nil for documents without tabs
	Tab *docs.Tab `json:"-"`
	// Title is the selected tab's title, empty for documents without tabs
	Title string `json:"title,omitempty"`
	// Body is the body to extract; may be nil when the selected tab has no content
	Body *docs.Body `json:"-"`
	// Reason names the rule that picked the body
	Reason SelectionReason `json:"reason"`
	// Note is an informational message when neither named tab was found
	Note string `json:"note,omitempty"`
	// Available lists every tab title in document order
	Available []string `json:"available,omitempty"`
}

// SelectTab picks exactly one body to extract from doc.
//
// Documents without tabs yield their top-level body. Child tabs take part in
// the name search (depth-first, document order) but the first-tab fallback
// always uses the first top-level tab. A document with neither tabs nor a body
// returns ErrNoContent.
func SelectTab(doc *docs.Document, policy TabSelectionPolicy) (TabSelection, error) {
	if doc == nil {
		return TabSelection{}, ErrNoContent
	}

	if len(doc.Tabs) == 0 {
		if doc.Body == nil {
			return TabSelection{}, ErrNoContent
		}
		return TabSelection{Body: doc.Body, Reason: ReasonLegacyBody}, nil
	}

	policy = policy.withDefaults()

	var (
		preferred *docs.Tab
		fallback  *docs.Tab
		available []string
	)
	walkTabs(doc.Tabs, func(tab *docs.Tab) {
		title := tabTitle(tab)
		available = append(available, title)
		if preferred == nil && strings.EqualFold(title, policy.PreferredName) {
			preferred = tab
		}
		if fallback == nil && strings.EqualFold(title, policy.FallbackName) {
			fallback = tab
		}
	})

	selection := TabSelection{Available: available}
	switch {
	case policy.PreferTranscript && preferred != nil:
		selection.Tab = preferred
		selection.Reason = ReasonPreferred
	case fallback != nil:
		selection.Tab = fallback
		selection.Reason = ReasonFallback
	default:
		selection.Tab = firstTab(doc.Tabs)
		selection.Reason = ReasonFirstTab
		if selection.Tab == nil {
			return TabSelection{}, ErrNoContent
		}
		selection.Note = fmt.Sprintf("no %q or %q tab found (available: %s), using first tab %q",
			policy.PreferredName, policy.FallbackName, strings.Join(available, ", "), tabTitle(selection.Tab))
	}

	selection.Title = tabTitle(selection.Tab)
	selection.Body = tabBody(selection.Tab)
	return selection, nil
}

// DocumentText selects a body with policy and returns its flattened text
func DocumentText(doc *docs.Document, policy TabSelectionPolicy) (string, TabSelection, error) {
	selection, err := SelectTab(doc, policy)
	if err != nil {
		return "", selection, err
	}
	return ExtractBody(selection.Body), selection, nil
}

func walkTabs(tabs []*docs.Tab, visit func(*docs.Tab)) {
	for _, tab := range tabs {
		if tab == nil {
			continue
		}
		visit(tab)
		walkTabs(tab.ChildTabs, visit)
	}
}

func firstTab(tabs []*docs.Tab) *docs.Tab {
	for _, tab := range tabs {
		if tab != nil {
			return tab
		}
	}
	return nil
}

func tabTitle(tab *docs.Tab) string {
	if tab == nil || tab.TabProperties == nil {
		return ""
	}
	return tab.TabProperties.Title
}

func tabBody(tab *docs.Tab) *docs.Body {
	if tab == nil || tab.DocumentTab == nil {
		return nil
	}
	return tab.DocumentTab.Body
}
