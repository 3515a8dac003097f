package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ncalabs/scribe/internal/models"
)

// PostStore is the storage adapter for scheduled posts.
type PostStore interface {
	ListAll() ([]models.ScheduledPost, error)
	GetByID(id string) (*models.ScheduledPost, error)
	Insert(post *models.ScheduledPost) error
	Update(id string, fields map[string]any) error
	DeleteByID(id string) error
	// FindActiveByDate returns the (at most one) non-published post
	// scheduled on the same calendar day, or nil.
	FindActiveByDate(date time.Time) (*models.ScheduledPost, error)
}

// GormPostStore persists scheduled posts through gorm.
type GormPostStore struct {
	db *gorm.DB
}

func NewGormPostStore(db *gorm.DB) *GormPostStore {
	return &GormPostStore{db: db}
}

func (s *GormPostStore) ListAll() ([]models.ScheduledPost, error) {
	var posts []models.ScheduledPost
	if err := s.db.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list scheduled posts: %w", err)
	}
	return posts, nil
}

func (s *GormPostStore) GetByID(id string) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	err := s.db.Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled post: %w", err)
	}
	return &post, nil
}

func (s *GormPostStore) Insert(post *models.ScheduledPost) error {
	if err := s.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to insert scheduled post: %w", err)
	}
	return nil
}

func (s *GormPostStore) Update(id string, fields map[string]any) error {
	if err := s.db.Model(&models.ScheduledPost{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update scheduled post: %w", err)
	}
	return nil
}

func (s *GormPostStore) DeleteByID(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.ScheduledPost{}).Error; err != nil {
		return fmt.Errorf("failed to delete scheduled post: %w", err)
	}
	return nil
}

func (s *GormPostStore) FindActiveByDate(date time.Time) (*models.ScheduledPost, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var post models.ScheduledPost
	err := s.db.
		Where("scheduled_date >= ? AND scheduled_date < ? AND status <> ?", dayStart, dayEnd, models.StatusPublished).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled date: %w", err)
	}
	return &post, nil
}
