package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/config"
	"github.com/ncalabs/scribe/internal/content"
	"github.com/ncalabs/scribe/internal/models"
)

type fakeRecorder struct {
	mu        sync.Mutex
	published []string
	failed    []string
}

func (r *fakeRecorder) RecordPublished(postID, _, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, postID+"/"+source)
}

func (r *fakeRecorder) RecordFailed(postID string, _ error, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, postID+"/"+source)
}

func newTestAutoPublisher(t *testing.T, store PostStore) (*AutoPublisher, *SchedulerService, *fakeRecorder) {
	t.Helper()
	articles := content.NewStore(t.TempDir(), content.DefaultRoot)
	scheduler := NewSchedulerService(store, articles, &fakeTextGenerator{}, &fakeImageGenerator{}, content.DefaultRoot, zap.NewNop())
	recorder := &fakeRecorder{}
	cfg := &config.PublisherConfig{Interval: "60m", InitialDelay: "10ms", Enabled: true}
	return NewAutoPublisher(cfg, zap.NewNop(), scheduler, recorder), scheduler, recorder
}

func TestRunOncePublishesDuePosts(t *testing.T) {
	store := newFakePostStore()
	publisher, scheduler, recorder := newTestAutoPublisher(t, store)

	past := time.Now().UTC().AddDate(0, 0, -2)

	due, err := scheduler.Create("due topic", past)
	require.NoError(t, err)
	require.NoError(t, scheduler.MarkGenerated(due.ID, fullGeneratedFields()))

	pending, err := scheduler.Create("untouched topic", past.AddDate(0, 0, 1))
	require.NoError(t, err)

	publisher.RunOnce(context.Background())

	got, err := scheduler.GetByID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)

	untouched, err := scheduler.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, untouched.Status)

	require.Len(t, recorder.published, 1)
	assert.Equal(t, due.ID+"/auto", recorder.published[0])
	assert.Empty(t, recorder.failed)
}

func TestRunOnceIsolatesFailures(t *testing.T) {
	store := newFakePostStore()
	publisher, scheduler, recorder := newTestAutoPublisher(t, store)

	past := time.Now().UTC().AddDate(0, 0, -2)

	// Generated status but no generated content: publish must fail.
	broken := models.NewScheduledPost("broken topic", past)
	broken.Status = models.StatusGenerated
	require.NoError(t, store.Insert(broken))

	healthy, err := scheduler.Create("healthy topic", past.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NoError(t, scheduler.MarkGenerated(healthy.ID, fullGeneratedFields()))

	publisher.RunOnce(context.Background())

	got, err := scheduler.GetByID(healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)

	require.Len(t, recorder.failed, 1)
	assert.Equal(t, broken.ID+"/auto", recorder.failed[0])
	require.Len(t, recorder.published, 1)
	assert.Equal(t, healthy.ID+"/auto", recorder.published[0])
}

func TestRunOnceSkipsOverlappingRuns(t *testing.T) {
	store := newFakePostStore()
	publisher, scheduler, recorder := newTestAutoPublisher(t, store)

	due, err := scheduler.Create("due topic", time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.NoError(t, scheduler.MarkGenerated(due.ID, fullGeneratedFields()))

	publisher.running.Store(true)
	publisher.RunOnce(context.Background())

	got, err := scheduler.GetByID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusGenerated, got.Status)
	assert.Empty(t, recorder.published)

	publisher.running.Store(false)
	publisher.RunOnce(context.Background())

	got, err = scheduler.GetByID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)
}

func TestStartDisabledDoesNothing(t *testing.T) {
	store := newFakePostStore()
	publisher, _, _ := newTestAutoPublisher(t, store)
	publisher.config.Enabled = false

	require.NoError(t, publisher.Start(context.Background()))
	assert.Nil(t, publisher.ticker)
}
