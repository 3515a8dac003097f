package models

import "time"

// Prompt is an editable generation prompt stored in the database.
// Built-in defaults apply when a row is missing.
type Prompt struct {
	ID         string    `gorm:"primaryKey;size:100" json:"id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Category   string    `gorm:"size:100;index" json:"category"`
	PromptText string    `gorm:"type:text;not null" json:"prompt_text"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
