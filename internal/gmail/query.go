package gmail

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/qwilo/internal/drive"
)

const (
	// NotesQuery selects meeting notes emails when no label narrows the search
	NotesQuery = "subject:notes"

	// DefaultMaxResults caps how many messages a search returns
	DefaultMaxResults = 50

	// listPageSize is the largest page Gmail returns
	listPageSize = 100

	afterLayout = "2006/01/02"
)

// SearchOptions selects the notes emails to read
type SearchOptions struct {
	// Label restricts the search to a Gmail label and replaces NotesQuery
	Label string
	// StartDate is an MMDDYYYY date; older messages are skipped
	StartDate string
	// MaxResults caps the number of messages, DefaultMaxResults when zero
	MaxResults int
}

// BuildQuery returns the Gmail search query for opts
func BuildQuery(opts SearchOptions) (string, error) {
	var parts []string
	if label := strings.TrimSpace(opts.Label); label != "" {
		parts = append(parts, "label:"+quoteTerm(label))
	} else {
		parts = append(parts, NotesQuery)
	}

	if opts.StartDate != "" {
		after, err := drive.ParseModifiedAfter(opts.StartDate)
		if err != nil {
			return "", err
		}
		// Gmail's after: is exclusive, so step back a day to keep the start date.
		parts = append(parts, "after:"+after.AddDate(0, 0, -1).Format(afterLayout))
	}
	return strings.Join(parts, " "), nil
}

func quoteTerm(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func (o SearchOptions) maxResults() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// FilterBySubject returns the messages whose subject or topic contains
// subject, ignoring case. An empty subject matches every message.
func FilterBySubject(messages []*Message, subject string) []*Message {
	needle := strings.ToLower(strings.TrimSpace(subject))
	if needle == "" {
		return messages
	}

	var matches []*Message
	for _, msg := range messages {
		if strings.Contains(strings.ToLower(msg.Subject), needle) ||
			strings.Contains(strings.ToLower(msg.Topic()), needle) {
			matches = append(matches, msg)
		}
	}
	return matches
}

// dateOf converts Gmail's internal date in milliseconds
func dateOf(internalDate int64) time.Time {
	if internalDate <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(internalDate).UTC()
}
