package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/config"
)

// GeminiGenerator generates article drafts through the Gemini REST
// API. Generation runs in two phases: source analysis (or keyword
// research), then article writing against a strict JSON schema.
// Requests carry a bounded client timeout so a hung generator call
// cannot block a sweep item forever.
type GeminiGenerator struct {
	config  *config.GeneratorConfig
	prompts PromptSource
	fetcher *Fetcher
	client  *http.Client
	logger  *zap.Logger
}

type sourceAnalysis struct {
	Topic          string   `json:"topic"`
	KeyPoints      []string `json:"keyPoints"`
	UniqueInsights []string `json:"uniqueInsights"`
	CodeExamples   []string `json:"codeExamples"`
}

func NewGeminiGenerator(cfg *config.GeneratorConfig, prompts PromptSource, logger *zap.Logger) *GeminiGenerator {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &GeminiGenerator{
		config:  cfg,
		prompts: prompts,
		fetcher: NewFetcher(),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *GeminiGenerator) FromURL(ctx context.Context, sourceURL string) (*GeneratedArticle, error) {
	fetched, err := g.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}

	analysis, err := g.analyzeSource(ctx, fetched)
	if err != nil {
		return nil, err
	}

	return g.generateArticle(ctx, analysis)
}

func (g *GeminiGenerator) FromKeywords(ctx context.Context, keywords string) (*GeneratedArticle, error) {
	analysis, err := g.researchKeywords(ctx, keywords)
	if err != nil {
		return nil, err
	}

	return g.generateArticle(ctx, analysis)
}

func (g *GeminiGenerator) analyzeSource(ctx context.Context, fetched *FetchedContent) (*sourceAnalysis, error) {
	content := fetched.Content
	if len(content) > 12000 {
		content = content[:12000]
	}

	prompt := fmt.Sprintf(`Analyze this web article and extract its key information.

Title: %s
URL: %s

Content:
%s

Identify:
1. The main topic (focused on web development and accessibility)
2. The most important key points
3. Unique insights or lesser-known tips
4. Relevant code examples or patterns`,
		fetched.Title, fetched.URL, content)

	var analysis sourceAnalysis
	if err := g.generateJSON(ctx, "", prompt, analysisSchema(), &analysis); err != nil {
		return nil, fmt.Errorf("failed to analyze source: %w", err)
	}
	return &analysis, nil
}

func (g *GeminiGenerator) researchKeywords(ctx context.Context, keywords string) (*sourceAnalysis, error) {
	prompt := fmt.Sprintf(`You are an expert in web accessibility and inclusive front-end development.

Research the topic: %q

Use your expertise to:
1. Define the main topic clearly, tied to accessibility
2. Summarize the most important facts, best practices and WCAG guidelines
3. Identify lesser-known but important tips and insights
4. Suggest practical code examples or patterns

Focus on current standards and practical applicability.`, keywords)

	var analysis sourceAnalysis
	if err := g.generateJSON(ctx, "", prompt, analysisSchema(), &analysis); err != nil {
		return nil, fmt.Errorf("failed to research keywords: %w", err)
	}
	return &analysis, nil
}

func (g *GeminiGenerator) generateArticle(ctx context.Context, analysis *sourceAnalysis) (*GeneratedArticle, error) {
	systemPrompt := g.buildSystemPrompt()
	userPrompt := buildUserPrompt(analysis)

	var article GeneratedArticle
	if err := g.generateJSON(ctx, systemPrompt, userPrompt, articleSchema(), &article); err != nil {
		return nil, fmt.Errorf("failed to generate article: %w", err)
	}

	article.Tags = mergeTags(g.prompts.CoreTags(), article.Tags)
	return &article, nil
}

func (g *GeminiGenerator) buildSystemPrompt() string {
	cta := g.prompts.CTA()
	return fmt.Sprintf(`%s

- IMPORTANT: end the article with a unique call-to-action:
  - Link: %s
  - Style: %s
  %s`, g.prompts.SystemPrompt(), cta.URL, cta.Style, cta.Prompt)
}

func buildUserPrompt(analysis *sourceAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an in-depth article as an accessibility expert on the topic: %s\n\n", analysis.Topic)
	b.WriteString("Cover these aspects from your own expertise:\n")
	for _, p := range analysis.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	for _, p := range analysis.UniqueInsights {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	if len(analysis.CodeExamples) > 0 {
		b.WriteString("\nShow practical code examples for:\n")
		for _, c := range analysis.CodeExamples {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	b.WriteString("\nImportant: write entirely from your own expertise, never copy from sources.")
	return b.String()
}

func mergeTags(core, generated []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, t := range append(append([]string{}, core...), generated...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	return merged
}

// generateJSON calls the generateContent endpoint with a response
// schema and decodes the JSON payload into out.
func (g *GeminiGenerator) generateJSON(ctx context.Context, systemPrompt, prompt string, schema map[string]any, out any) error {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}
	if systemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": systemPrompt}},
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.config.Endpoint, g.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("generator API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("generator returned no candidates")
	}

	text := response.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		snippet := text
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return fmt.Errorf("failed to parse generated JSON: %w: %s", err, snippet)
	}

	return nil
}

func analysisSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "STRING",
				"description": "The main topic in 2-5 words",
			},
			"keyPoints": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "The most important key points and facts",
			},
			"uniqueInsights": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "Unique insights or lesser-known tips",
			},
			"codeExamples": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "Important code examples or patterns",
			},
		},
		"required": []string{"topic", "keyPoints", "uniqueInsights", "codeExamples"},
	}
}

func articleSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "STRING",
				"description": "SEO-optimized title, max 60 characters",
			},
			"description": map[string]any{
				"type":        "STRING",
				"description": "Meta description, max 155 characters",
			},
			"tags": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "Relevant tags for the article",
			},
			"content": map[string]any{
				"type":        "STRING",
				"description": "Complete markdown content. MUST start with an H1 heading, then H2/H3 hierarchy. No HTML tags.",
			},
		},
		"required": []string{"title", "description", "tags", "content"},
	}
}
