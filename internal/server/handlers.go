package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/content"
	"github.com/ncalabs/scribe/internal/models"
	"github.com/ncalabs/scribe/internal/service"
)

// respondError maps service errors onto HTTP statuses: unknown ids to
// 404, forbidden transitions to 400, date conflicts to 409.
func (s *Server) respondError(c *gin.Context, err error) {
	var statusErr *models.StatusError
	var conflictErr *models.ConflictError

	switch {
	case errors.Is(err, models.ErrPostNotFound), errors.Is(err, content.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &statusErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.Scheduler.List()
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type createPostRequest struct {
	Input         string `json:"input" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input and scheduled_date are required"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.ScheduledDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_date must be formatted as YYYY-MM-DD"})
		return
	}

	post, err := s.Scheduler.Create(req.Input, date)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) handleGetPost(c *gin.Context) {
	post, err := s.Scheduler.GetByID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	if err := s.Scheduler.Delete(c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

type generateRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleGeneratePost(c *gin.Context) {
	var req generateRequest
	// Body is optional; an empty mode means the full pipeline. A body
	// that is present but malformed must not start a generation run.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	post, err := s.Scheduler.Generate(c.Request.Context(), c.Param("id"), req.Mode)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (s *Server) handlePublishPost(c *gin.Context) {
	id := c.Param("id")

	result, err := s.Scheduler.PublishPost(c.Request.Context(), id)
	if err != nil {
		s.Monitoring.RecordFailed(id, err, service.PublishSourceManual)
		s.respondError(c, err)
		return
	}

	s.Monitoring.RecordPublished(result.ID, result.PublishedPath, service.PublishSourceManual)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handlePostHistory(c *gin.Context) {
	entries, err := s.Monitoring.History(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (s *Server) handlePublishDue(c *gin.Context) {
	s.AutoPublisher.RunOnce(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Publish check completed"})
}

func (s *Server) handleListArticles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"articles": s.Articles.List()})
}

func (s *Server) handleGetArticle(c *gin.Context) {
	article, ok := s.Articles.Read(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// Pointer fields keep absent JSON keys distinct from values set to
// the empty string.
type updateArticleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

func (s *Server) handleUpdateArticle(c *gin.Context) {
	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := s.Articles.UpdateContent(c.Param("slug"), content.UpdateOptions{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article updated"})
}

func (s *Server) handleDeleteArticle(c *gin.Context) {
	if err := s.Articles.Delete(c.Param("slug")); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}

func (s *Server) handleListPrompts(c *gin.Context) {
	prompts, err := s.Prompts.ListPrompts()
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

type savePromptRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PromptText string `json:"prompt_text" binding:"required"`
}

func (s *Server) handleSavePrompt(c *gin.Context) {
	var req savePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt_text is required"})
		return
	}

	prompt := &models.Prompt{
		ID:         c.Param("id"),
		Name:       req.Name,
		Category:   req.Category,
		PromptText: req.PromptText,
	}
	if err := s.Prompts.SavePrompt(prompt); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prompt)
}
