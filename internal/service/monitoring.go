package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ncalabs/scribe/internal/models"
)

// Publish sources recorded in the publish log.
const (
	PublishSourceManual = "manual"
	PublishSourceAuto   = "auto"
)

// MonitoringService records publish outcomes for observability. A
// failed log write never fails the operation being recorded.
type MonitoringService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMonitoringService(db *gorm.DB, logger *zap.Logger) *MonitoringService {
	return &MonitoringService{db: db, logger: logger}
}

func (m *MonitoringService) RecordPublished(postID, publishedPath, source string) {
	entry := &models.PublishLog{
		PostID:        postID,
		Outcome:       models.PublishOutcomeSuccess,
		PublishedPath: publishedPath,
		Source:        source,
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.logger.Warn("Failed to record publish outcome",
			zap.String("post_id", postID),
			zap.Error(err))
	}
}

func (m *MonitoringService) RecordFailed(postID string, publishErr error, source string) {
	entry := &models.PublishLog{
		PostID:  postID,
		Outcome: models.PublishOutcomeFailed,
		Error:   publishErr.Error(),
		Source:  source,
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.logger.Warn("Failed to record publish failure",
			zap.String("post_id", postID),
			zap.Error(err))
	}
}

// History returns the publish log for one post, newest first.
func (m *MonitoringService) History(postID string) ([]models.PublishLog, error) {
	var entries []models.PublishLog
	if err := m.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
