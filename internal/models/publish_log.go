package models

import "time"

// Publish outcome values recorded per post and sweep.
const (
	PublishOutcomeSuccess = "published"
	PublishOutcomeFailed  = "failed"
)

// PublishLog records the outcome of one publish attempt, manual or
// from an auto-publish sweep.
type PublishLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        string    `gorm:"size:64;not null;index" json:"post_id"`
	Outcome       string    `gorm:"size:20;not null" json:"outcome"`
	PublishedPath string    `gorm:"type:text" json:"published_path"`
	Error         string    `gorm:"type:text" json:"error"`
	Source        string    `gorm:"size:20" json:"source"` // manual or auto
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
