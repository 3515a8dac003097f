package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post lifecycle statuses. Transitions only ever move forward;
// published is terminal.
const (
	StatusPending   = "pending"
	StatusGenerated = "generated"
	StatusPublished = "published"
)

// Input types, detected once at creation.
const (
	InputTypeURL      = "url"
	InputTypeKeywords = "keywords"
)

// ScheduledPost is one scheduled article: the source input, the
// intended publish date, and the generated fields filled in by the
// generation step.
type ScheduledPost struct {
	ID                   string    `gorm:"primaryKey;size:64" json:"id"`
	Input                string    `gorm:"type:text;not null" json:"input"`
	InputType            string    `gorm:"size:20;not null" json:"input_type"`
	ScheduledDate        time.Time `gorm:"not null;index" json:"scheduled_date"`
	Status               string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	GeneratedTitle       *string   `gorm:"type:text" json:"generated_title"`
	GeneratedDescription *string   `gorm:"type:text" json:"generated_description"`
	GeneratedContent     *string   `gorm:"type:text" json:"generated_content"`
	GeneratedTags        *string   `gorm:"type:text" json:"generated_tags"`
	GeneratedImageData   *string   `gorm:"type:text" json:"generated_image_data"`
	GeneratedImageAlt    *string   `gorm:"type:text" json:"generated_image_alt"`
	PublishedPath        *string   `gorm:"type:text" json:"published_path"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NewScheduledPost creates a pending post for the given input and
// date. The input type is detected here and never re-derived.
func NewScheduledPost(input string, scheduledDate time.Time) *ScheduledPost {
	return &ScheduledPost{
		ID:            newPostID(),
		Input:         input,
		InputType:     DetectInputType(input),
		ScheduledDate: scheduledDate,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}

func newPostID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("sp_%d_%s", time.Now().UnixMilli(), suffix)
}

// DetectInputType classifies input as an absolute URL or free-text
// keywords.
func DetectInputType(input string) string {
	u, err := url.Parse(strings.TrimSpace(input))
	if err == nil && u.Scheme != "" && u.Host != "" {
		return InputTypeURL
	}
	return InputTypeKeywords
}

func (p *ScheduledPost) CanGenerate() bool {
	return p.Status == StatusPending || p.Status == StatusGenerated
}

func (p *ScheduledPost) CanPublish() bool {
	return p.Status == StatusGenerated
}

func (p *ScheduledPost) CanDelete() bool {
	return p.Status != StatusPublished
}

// IsDue reports whether the post is ready for automatic publication:
// generated content exists and the scheduled day has arrived. Dates
// compare at calendar-day granularity in UTC; a pending post is never
// due no matter how far in the past its date lies.
func (p *ScheduledPost) IsDue() bool {
	if p.Status != StatusGenerated {
		return false
	}
	today := time.Now().UTC().Format("2006-01-02")
	scheduled := p.ScheduledDate.UTC().Format("2006-01-02")
	return scheduled <= today
}

// ParsedTags decodes the JSON-encoded generated tags. Malformed or
// absent tags yield an empty slice.
func (p *ScheduledPost) ParsedTags() []string {
	if p.GeneratedTags == nil || *p.GeneratedTags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(*p.GeneratedTags), &tags); err != nil {
		return []string{}
	}
	return tags
}
