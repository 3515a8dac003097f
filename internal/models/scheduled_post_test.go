package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewScheduledPost(t *testing.T) {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	post := NewScheduledPost("https://example.com/a", date)

	assert.True(t, strings.HasPrefix(post.ID, "sp_"))
	assert.Equal(t, InputTypeURL, post.InputType)
	assert.Equal(t, StatusPending, post.Status)
	assert.Equal(t, date, post.ScheduledDate)
	assert.Nil(t, post.GeneratedTitle)
	assert.Nil(t, post.PublishedPath)
}

func TestScheduledPostIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewScheduledPost("a", time.Now()).ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestDetectInputType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/article", InputTypeURL},
		{"http://example.com", InputTypeURL},
		{"accessible forms", InputTypeKeywords},
		{"example.com/no-scheme", InputTypeKeywords},
		{"", InputTypeKeywords},
		{"aria labels screenreader", InputTypeKeywords},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectInputType(tt.input), "input %q", tt.input)
	}
}

func TestTransitionGuards(t *testing.T) {
	tests := []struct {
		status      string
		canGenerate bool
		canPublish  bool
		canDelete   bool
	}{
		{StatusPending, true, false, true},
		{StatusGenerated, true, true, true},
		{StatusPublished, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			post := &ScheduledPost{Status: tt.status}
			assert.Equal(t, tt.canGenerate, post.CanGenerate())
			assert.Equal(t, tt.canPublish, post.CanPublish())
			assert.Equal(t, tt.canDelete, post.CanDelete())
		})
	}
}

func TestIsDue(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	longAgo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("generated and past date is due", func(t *testing.T) {
		post := &ScheduledPost{Status: StatusGenerated, ScheduledDate: yesterday}
		assert.True(t, post.IsDue())
	})

	t.Run("generated today is due", func(t *testing.T) {
		post := &ScheduledPost{Status: StatusGenerated, ScheduledDate: time.Now().UTC()}
		assert.True(t, post.IsDue())
	})

	t.Run("generated future date is not due", func(t *testing.T) {
		post := &ScheduledPost{Status: StatusGenerated, ScheduledDate: tomorrow}
		assert.False(t, post.IsDue())
	})

	t.Run("pending is never due", func(t *testing.T) {
		post := &ScheduledPost{Status: StatusPending, ScheduledDate: longAgo}
		assert.False(t, post.IsDue())
	})

	t.Run("published is not due", func(t *testing.T) {
		post := &ScheduledPost{Status: StatusPublished, ScheduledDate: longAgo}
		assert.False(t, post.IsDue())
	})
}

func TestParsedTags(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		post := &ScheduledPost{GeneratedTags: strPtr(`["x","y"]`)}
		assert.Equal(t, []string{"x", "y"}, post.ParsedTags())
	})

	t.Run("nil tags", func(t *testing.T) {
		post := &ScheduledPost{}
		assert.Empty(t, post.ParsedTags())
	})

	t.Run("malformed json", func(t *testing.T) {
		post := &ScheduledPost{GeneratedTags: strPtr("not json")}
		assert.Empty(t, post.ParsedTags())
	})
}

func TestStatusErrorMessages(t *testing.T) {
	err := &StatusError{Action: "publish", Status: StatusPending}
	assert.Equal(t, `Cannot publish: post is in status "pending"`, err.Error())

	del := &StatusError{Action: "delete", Status: StatusPublished}
	assert.Equal(t, "Cannot delete a published post", del.Error())
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Date: time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC)}
	assert.Equal(t, "Date 2026-04-01 is already scheduled for another post", err.Error())
}
