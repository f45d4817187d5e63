package gmail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// ErrNoDocumentLink is recorded for notes emails that link to no Google Doc
var ErrNoDocumentLink = errors.New("email links to no Google Doc")

const notesPrefix = "Notes:"

// Message is a notes email with its decoded body and the links found in it
type Message struct {
	ID       string     `json:"id"`
	ThreadID string     `json:"threadId"`
	Subject  string     `json:"subject"`
	From     string     `json:"from"`
	Date     time.Time  `json:"date"`
	Body     string     `json:"-"`
	DocLinks []*DocLink `json:"docLinks,omitempty"`
}

// Topic returns the meeting name from the subject. A leading "Notes:" is
// dropped, and when the rest starts with a quoted name only that name is kept.
func (m *Message) Topic() string {
	topic, _ := strings.CutPrefix(strings.TrimSpace(m.Subject), notesPrefix)
	topic = strings.TrimSpace(topic)

	for _, q := range []struct{ open, close string }{{"“", "”"}, {`"`, `"`}, {"'", "'"}} {
		rest, ok := strings.CutPrefix(topic, q.open)
		if !ok {
			continue
		}
		if name, _, found := strings.Cut(rest, q.close); found && name != "" {
			return name
		}
	}
	return topic
}

// DocumentIDs returns the IDs of the Google Docs the email links to
func (m *Message) DocumentIDs() []string {
	return documentIDs(m.DocLinks)
}

// newMessage converts a message fetched in full format
func newMessage(msg *gmail.Message) (*Message, error) {
	m := &Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Date:     dateOf(msg.InternalDate),
	}
	if msg.Payload == nil {
		return m, nil
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			m.Subject = h.Value
		case "from":
			m.From = h.Value
		}
	}

	body, err := messageBody(msg.Payload)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.Id, err)
	}
	m.Body = body
	m.DocLinks = ExtractDocLinks(body)
	return m, nil
}

// messageBody returns the first text/plain part of payload, or the first
// text/html part when there is no plain text. Links survive in either form.
func messageBody(payload *gmail.MessagePart) (string, error) {
	for _, mimeType := range []string{"text/plain", "text/html"} {
		var data string
		walkParts(payload, func(part *gmail.MessagePart) {
			if data == "" && part.MimeType == mimeType && part.Body != nil {
				data = part.Body.Data
			}
		})
		if data != "" {
			return decodeBody(data)
		}
	}
	return "", nil
}

func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, child := range part.Parts {
		walkParts(child, fn)
	}
}

// decodeBody decodes base64url body data, padded or not
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}
	return string(decoded), nil
}
