package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a post: new -> ready -> sent,
// with error reachable from new or ready
type Status string

// post statuses
const (
	StatusNew   Status = "new"
	StatusReady Status = "ready"
	StatusSent  Status = "sent"
	StatusError Status = "error"
)

// Post represents one content item derived from one source entry.
// The pair (SourceID, GUID) is unique, enforced by the store.
type Post struct {
	ID           string
	SourceID     string
	GUID         string
	OriginalText string
	SummaryText  string
	MediaURL     string
	ExtraText    string
	Hashtags     []string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SentAt       *time.Time
}

// Caption renders the text delivered alongside or instead of media:
// summary if present, else original text, with extra text and hashtags
// each appended as their own paragraph.
func (p *Post) Caption() string {
	text := p.SummaryText
	if text == "" {
		text = p.OriginalText
	}
	if p.ExtraText != "" {
		text += "\n\n" + p.ExtraText
	}
	if len(p.Hashtags) > 0 {
		text += "\n\n" + strings.Join(p.Hashtags, " ")
	}
	return text
}
