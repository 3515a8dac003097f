package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/content"
	"github.com/ncalabs/scribe/internal/models"
	"github.com/ncalabs/scribe/internal/service/generate"
	"github.com/ncalabs/scribe/pkg/images"
)

// Generation modes.
const (
	GenerateModeAll   = "all"
	GenerateModeText  = "text"
	GenerateModeImage = "image"
)

// GeneratedFields carries the generator output persisted onto a post.
// Empty image fields are stored as null.
type GeneratedFields struct {
	Title       string
	Description string
	Content     string
	Tags        []string
	ImageData   string
	ImageAlt    string
}

// PublishResult reports a completed publication.
type PublishResult struct {
	ID            string `json:"id"`
	PublishedPath string `json:"published_path"`
}

// SchedulerService owns all writes to scheduled post state: creation
// with the date-uniqueness check, the generation transitions, and the
// publish orchestration shared by the manual and automatic paths.
type SchedulerService struct {
	store       PostStore
	articles    *content.Store
	textGen     generate.TextGenerator
	imageGen    generate.ImageGenerator
	contentRoot string
	logger      *zap.Logger
}

func NewSchedulerService(
	store PostStore,
	articles *content.Store,
	textGen generate.TextGenerator,
	imageGen generate.ImageGenerator,
	contentRoot string,
	logger *zap.Logger,
) *SchedulerService {
	return &SchedulerService{
		store:       store,
		articles:    articles,
		textGen:     textGen,
		imageGen:    imageGen,
		contentRoot: contentRoot,
		logger:      logger,
	}
}

// Create schedules a new post. The input type is detected once here;
// a date already held by a non-published post is rejected. The
// check-then-insert pair is not atomic against concurrent callers.
func (s *SchedulerService) Create(input string, scheduledDate time.Time) (*models.ScheduledPost, error) {
	existing, err := s.store.FindActiveByDate(scheduledDate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &models.ConflictError{Date: scheduledDate}
	}

	post := models.NewScheduledPost(input, scheduledDate)
	if err := s.store.Insert(post); err != nil {
		return nil, err
	}

	s.logger.Info("Scheduled post created",
		zap.String("id", post.ID),
		zap.String("input_type", post.InputType),
		zap.Time("scheduled_date", post.ScheduledDate))

	return post, nil
}

// List returns all posts ordered by ascending scheduled date.
func (s *SchedulerService) List() ([]models.ScheduledPost, error) {
	posts, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ScheduledDate.Before(posts[j].ScheduledDate)
	})

	return posts, nil
}

func (s *SchedulerService) GetByID(id string) (*models.ScheduledPost, error) {
	post, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrPostNotFound, id)
	}
	return post, nil
}

// Delete removes a post unless it has been published.
func (s *SchedulerService) Delete(id string) error {
	post, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !post.CanDelete() {
		return &models.StatusError{Action: "delete", Status: post.Status}
	}
	return s.store.DeleteByID(id)
}

func (s *SchedulerService) requireGeneratable(id, action string) (*models.ScheduledPost, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !post.CanGenerate() {
		return nil, &models.StatusError{Action: action, Status: post.Status}
	}
	return post, nil
}

// MarkGenerated persists a full generation result and advances the
// post to generated. Absent image fields are cleared to null.
func (s *SchedulerService) MarkGenerated(id string, data GeneratedFields) error {
	if _, err := s.requireGeneratable(id, "generate"); err != nil {
		return err
	}

	tags, err := json.Marshal(data.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	fields := map[string]any{
		"status":                models.StatusGenerated,
		"generated_title":       data.Title,
		"generated_description": data.Description,
		"generated_content":     data.Content,
		"generated_tags":        string(tags),
		"generated_image_data":  nullable(data.ImageData),
		"generated_image_alt":   nullable(data.ImageAlt),
	}

	return s.store.Update(id, fields)
}

// UpdateText replaces only the text fields of a generated post.
func (s *SchedulerService) UpdateText(id string, data GeneratedFields) error {
	if _, err := s.requireGeneratable(id, "regenerate"); err != nil {
		return err
	}

	tags, err := json.Marshal(data.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	return s.store.Update(id, map[string]any{
		"status":                models.StatusGenerated,
		"generated_title":       data.Title,
		"generated_description": data.Description,
		"generated_content":     data.Content,
		"generated_tags":        string(tags),
	})
}

// UpdateImage replaces only the image fields of a generated post.
func (s *SchedulerService) UpdateImage(id, imageData, imageAlt string) error {
	if _, err := s.requireGeneratable(id, "regenerate"); err != nil {
		return err
	}

	return s.store.Update(id, map[string]any{
		"status":               models.StatusGenerated,
		"generated_image_data": imageData,
		"generated_image_alt":  imageAlt,
	})
}

// MarkPublished is the unconditional terminal update. Callers must
// have validated CanPublish and written the article; only the publish
// orchestration calls this.
func (s *SchedulerService) MarkPublished(id, publishedPath string) error {
	return s.store.Update(id, map[string]any{
		"status":         models.StatusPublished,
		"published_path": publishedPath,
	})
}

// DuePosts returns all posts ready for automatic publication.
func (s *SchedulerService) DuePosts() ([]models.ScheduledPost, error) {
	posts, err := s.List()
	if err != nil {
		return nil, err
	}

	var due []models.ScheduledPost
	for _, post := range posts {
		if post.IsDue() {
			due = append(due, post)
		}
	}
	return due, nil
}

// Generate runs the generation adapters for a post and persists the
// result. Mode selects the full pipeline, text only, or image only.
// In full mode an image failure degrades to a text-only result.
func (s *SchedulerService) Generate(ctx context.Context, id, mode string) (*models.ScheduledPost, error) {
	if mode == "" {
		mode = GenerateModeAll
	}

	post, err := s.requireGeneratable(id, "generate")
	if err != nil {
		return nil, err
	}

	switch mode {
	case GenerateModeText, GenerateModeAll:
		var article *generate.GeneratedArticle
		if post.InputType == models.InputTypeURL {
			article, err = s.textGen.FromURL(ctx, post.Input)
		} else {
			article, err = s.textGen.FromKeywords(ctx, post.Input)
		}
		if err != nil {
			return nil, err
		}

		fields := GeneratedFields{
			Title:       article.Title,
			Description: article.Description,
			Content:     article.Content,
			Tags:        article.Tags,
		}

		if mode == GenerateModeText {
			if err := s.UpdateText(id, fields); err != nil {
				return nil, err
			}
			break
		}

		if image, imgErr := s.imageGen.Generate(ctx, article.Title); imgErr != nil {
			s.logger.Warn("Image generation failed, continuing without image",
				zap.String("id", id),
				zap.Error(imgErr))
		} else {
			fields.ImageData = image.Data
			fields.ImageAlt = image.Alt
		}

		if err := s.MarkGenerated(id, fields); err != nil {
			return nil, err
		}

	case GenerateModeImage:
		title := post.Input
		if post.GeneratedTitle != nil && *post.GeneratedTitle != "" {
			title = *post.GeneratedTitle
		}

		image, err := s.imageGen.Generate(ctx, title)
		if err != nil {
			return nil, err
		}
		if err := s.UpdateImage(id, image.Data, image.Alt); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown generation mode %q", mode)
	}

	return s.GetByID(id)
}

// PublishPost is the publish orchestration shared by manual requests
// and the auto-publisher: guard, build the article from the generated
// fields using the scheduled date, write it, convert the hero image,
// then record the terminal transition with the folder actually used.
func (s *SchedulerService) PublishPost(ctx context.Context, id string) (*PublishResult, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !post.CanPublish() {
		return nil, &models.StatusError{Action: "publish", Status: post.Status}
	}
	if post.GeneratedTitle == nil || *post.GeneratedTitle == "" ||
		post.GeneratedContent == nil || *post.GeneratedContent == "" {
		return nil, fmt.Errorf("cannot publish %s: missing generated content", id)
	}

	article := content.Article{
		Title:       *post.GeneratedTitle,
		Description: deref(post.GeneratedDescription),
		Content:     *post.GeneratedContent,
		Date:        post.ScheduledDate,
		Tags:        post.ParsedTags(),
		Image:       "./hero.webp",
		ContentPath: s.contentRoot,
	}
	if post.GeneratedImageAlt != nil {
		article.ImageAlt = *post.GeneratedImageAlt
	}

	result, err := s.articles.Write(article)
	if err != nil {
		return nil, err
	}

	if post.GeneratedImageData != nil && *post.GeneratedImageData != "" {
		heroPath := filepath.Join(result.Folder, "hero.webp")
		if err := images.ConvertToWebP(*post.GeneratedImageData, heroPath); err != nil {
			return nil, fmt.Errorf("failed to write hero image: %w", err)
		}
	}

	publishedPath := article.FolderPath()
	if err := s.MarkPublished(post.ID, publishedPath); err != nil {
		return nil, err
	}

	s.logger.Info("Post published",
		zap.String("id", post.ID),
		zap.String("path", publishedPath))

	return &PublishResult{ID: post.ID, PublishedPath: publishedPath}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
