package service

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ncalabs/scribe/internal/models"
	"github.com/ncalabs/scribe/internal/service/generate"
)

// Prompt row ids.
const (
	promptIDSystem    = "system_prompt"
	promptIDCoreTags  = "core_tags"
	promptIDCTAURL    = "cta_url"
	promptIDCTAStyle  = "cta_style"
	promptIDCTAPrompt = "cta_prompt"
)

// Fallback values when the database holds no prompt rows.
const defaultSystemPrompt = `You are an experienced technical content writer for web development.
Your job is to produce high-quality expert articles about web accessibility.

Audience: content marketing professionals and front-end developers.
Tone: professional but approachable, technically correct, not overly academic.

CRITICAL - 100% originality:
- Write a COMPLETELY self-contained article
- Never take sentences, phrasings or structures from external sources
- No references to sources or inspiration in the text
- Every sentence must be newly formulated, as written by an expert

Rules:
- At least 800 words
- Use practical code examples (your own, never copied)
- IMPORTANT: content MUST start with an H1 heading (# Title)
- Then an H2/H3 hierarchy without gaps
- IMPORTANT: markdown only, no HTML tags
- Integrate the core keywords naturally into the text

Title rules:
- The main topic/keyword MUST appear in the title
- Use numbers where possible (e.g. "5 tips", "3 mistakes")
- Show the benefit, spark curiosity or solve a problem`

var defaultCoreTags = []string{"Semantik", "HTML", "Barrierefrei"}

const defaultCTAURL = "https://nevercodealone.de/de/landingpages/barrierefreies-webdesign"

// PromptService serves generation prompts from the database with
// built-in defaults. It implements generate.PromptSource.
type PromptService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPromptService(db *gorm.DB, logger *zap.Logger) *PromptService {
	return &PromptService{db: db, logger: logger}
}

// GetPrompt returns the stored prompt text for id, or empty when
// absent.
func (s *PromptService) GetPrompt(id string) (string, error) {
	var prompt models.Prompt
	err := s.db.Where("id = ?", id).First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return prompt.PromptText, nil
}

// SavePrompt upserts a prompt row.
func (s *PromptService) SavePrompt(prompt *models.Prompt) error {
	return s.db.Save(prompt).Error
}

// ListPrompts returns all stored prompts.
func (s *PromptService) ListPrompts() ([]models.Prompt, error) {
	var prompts []models.Prompt
	if err := s.db.Order("id").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (s *PromptService) SystemPrompt() string {
	text, err := s.GetPrompt(promptIDSystem)
	if err != nil {
		s.logger.Warn("Failed to load system prompt, using default", zap.Error(err))
		return defaultSystemPrompt
	}
	if text == "" {
		return defaultSystemPrompt
	}
	return text
}

func (s *PromptService) CoreTags() []string {
	text, err := s.GetPrompt(promptIDCoreTags)
	if err != nil || text == "" {
		return defaultCoreTags
	}

	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil || len(tags) == 0 {
		return defaultCoreTags
	}
	return tags
}

func (s *PromptService) CTA() generate.CTAConfig {
	cta := generate.CTAConfig{URL: defaultCTAURL}

	if v, err := s.GetPrompt(promptIDCTAURL); err == nil && v != "" {
		cta.URL = v
	}
	if v, err := s.GetPrompt(promptIDCTAStyle); err == nil && v != "" {
		cta.Style = v
	}
	if v, err := s.GetPrompt(promptIDCTAPrompt); err == nil && v != "" {
		cta.Prompt = v
	}

	return cta
}
