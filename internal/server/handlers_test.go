package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/config"
	"github.com/ncalabs/scribe/internal/content"
	"github.com/ncalabs/scribe/internal/models"
	"github.com/ncalabs/scribe/internal/service"
)

// emptyPostStore satisfies service.PostStore with no rows.
type emptyPostStore struct{}

func (emptyPostStore) ListAll() ([]models.ScheduledPost, error)        { return nil, nil }
func (emptyPostStore) GetByID(string) (*models.ScheduledPost, error)   { return nil, nil }
func (emptyPostStore) Insert(*models.ScheduledPost) error              { return nil }
func (emptyPostStore) Update(string, map[string]any) error             { return nil }
func (emptyPostStore) DeleteByID(string) error                         { return nil }
func (emptyPostStore) FindActiveByDate(time.Time) (*models.ScheduledPost, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	articles := content.NewStore(t.TempDir(), content.DefaultRoot)
	scheduler := service.NewSchedulerService(emptyPostStore{}, articles, nil, nil, content.DefaultRoot, zap.NewNop())

	srv := &Server{
		Config:    &config.Config{},
		Router:    gin.New(),
		Logger:    zap.NewNop(),
		Scheduler: scheduler,
		Articles:  articles,
	}
	srv.setupRoutes()
	return srv
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/posts/sp_1_abc/generate",
		strings.NewReader(`{"mode":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestGenerateAcceptsEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	// No body at all is valid; the request reaches the scheduler and
	// fails only on the unknown id.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/posts/sp_1_abc/generate", nil)
	rec := httptest.NewRecorder()

	srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
