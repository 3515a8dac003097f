// Package generate holds the AI generation adapters: a text generator
// producing full articles from a URL or keywords, and an image
// generator producing hero images. Both are fallible, possibly slow
// network calls; nothing above this package assumes a provider.
package generate

import "context"

// GeneratedArticle is the text generator output.
type GeneratedArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
}

// GeneratedImage is the image generator output. Data is base64
// encoded image bytes.
type GeneratedImage struct {
	Data string
	Alt  string
}

// TextGenerator produces a complete article draft.
type TextGenerator interface {
	FromURL(ctx context.Context, sourceURL string) (*GeneratedArticle, error)
	FromKeywords(ctx context.Context, keywords string) (*GeneratedArticle, error)
}

// ImageGenerator produces a hero image for an article title.
type ImageGenerator interface {
	Generate(ctx context.Context, title string) (*GeneratedImage, error)
}

// CTAConfig is the call-to-action appended to generated articles.
type CTAConfig struct {
	URL    string
	Style  string
	Prompt string
}

// PromptSource supplies editable prompts for the text generator.
// Implementations fall back to built-in defaults when unavailable.
type PromptSource interface {
	SystemPrompt() string
	CoreTags() []string
	CTA() CTAConfig
}
