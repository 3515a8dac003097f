package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/config"
)

// PublishRecorder receives the outcome of every automatic publish
// attempt.
type PublishRecorder interface {
	RecordPublished(postID, publishedPath, source string)
	RecordFailed(postID string, publishErr error, source string)
}

// AutoPublisher periodically publishes every due post. A post is due
// once it is generated and its scheduled date has arrived.
type AutoPublisher struct {
	config     *config.PublisherConfig
	logger     *zap.Logger
	scheduler  *SchedulerService
	monitoring PublishRecorder
	ticker     *time.Ticker
	stopCh     chan struct{}
	running    atomic.Bool
}

func NewAutoPublisher(cfg *config.PublisherConfig, logger *zap.Logger, scheduler *SchedulerService, monitoring PublishRecorder) *AutoPublisher {
	return &AutoPublisher{
		config:     cfg,
		logger:     logger,
		scheduler:  scheduler,
		monitoring: monitoring,
		stopCh:     make(chan struct{}),
	}
}

func (p *AutoPublisher) Start(ctx context.Context) error {
	if !p.config.Enabled {
		p.logger.Info("Auto-publisher is disabled")
		return nil
	}

	interval, err := time.ParseDuration(p.config.Interval)
	if err != nil {
		p.logger.Error("Invalid publish interval", zap.String("interval", p.config.Interval), zap.Error(err))
		return err
	}

	initialDelay, err := time.ParseDuration(p.config.InitialDelay)
	if err != nil {
		p.logger.Error("Invalid initial delay", zap.String("initial_delay", p.config.InitialDelay), zap.Error(err))
		return err
	}

	p.logger.Info("Starting auto-publisher",
		zap.String("interval", p.config.Interval),
		zap.String("initial_delay", p.config.InitialDelay))

	p.ticker = time.NewTicker(interval)

	// First run after a short delay so startup finishes undisturbed
	go func() {
		select {
		case <-time.After(initialDelay):
			p.logger.Info("Running initial publish check")
			p.RunOnce(ctx)
		case <-p.stopCh:
		case <-ctx.Done():
		}
	}()

	go func() {
		for {
			select {
			case <-p.ticker.C:
				p.logger.Info("Running scheduled publish check")
				p.RunOnce(ctx)
			case <-p.stopCh:
				p.logger.Info("Auto-publisher stopped")
				return
			case <-ctx.Done():
				p.logger.Info("Auto-publisher context cancelled")
				return
			}
		}
	}()

	return nil
}

func (p *AutoPublisher) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	close(p.stopCh)
	p.logger.Info("Auto-publisher shutdown completed")
}

// RunOnce publishes all currently due posts. Overlapping runs are
// skipped; one failing post never blocks the rest of the batch.
func (p *AutoPublisher) RunOnce(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("Publish check already running, skipping")
		return
	}
	defer p.running.Store(false)

	start := time.Now()

	due, err := p.scheduler.DuePosts()
	if err != nil {
		p.logger.Error("Failed to load due posts", zap.Error(err))
		return
	}

	if len(due) == 0 {
		p.logger.Info("No posts due for publication")
		return
	}

	published := 0
	for _, post := range due {
		result, err := p.scheduler.PublishPost(ctx, post.ID)
		if err != nil {
			p.logger.Error("Failed to publish due post",
				zap.String("id", post.ID),
				zap.Error(err))
			p.monitoring.RecordFailed(post.ID, err, PublishSourceAuto)
			continue
		}

		p.monitoring.RecordPublished(post.ID, result.PublishedPath, PublishSourceAuto)
		published++
	}

	p.logger.Info("Publish check completed",
		zap.Int("due", len(due)),
		zap.Int("published", published),
		zap.Duration("duration", time.Since(start)))
}
