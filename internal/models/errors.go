package models

import (
	"errors"
	"fmt"
	"time"
)

// Lookup errors.
var (
	ErrPostNotFound = errors.New("scheduled post not found")
)

// StatusError reports an operation attempted against a post whose
// status forbids it.
type StatusError struct {
	Action string
	Status string
}

func (e *StatusError) Error() string {
	if e.Action == "delete" {
		return "Cannot delete a published post"
	}
	return fmt.Sprintf("Cannot %s: post is in status %q", e.Action, e.Status)
}

// ConflictError reports a scheduling date already held by another
// non-published post.
type ConflictError struct {
	Date time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Date %s is already scheduled for another post", e.Date.UTC().Format("2006-01-02"))
}
