package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ncalabs/scribe/internal/config"
)

// ImagenGenerator produces hero images through the Imagen predict
// endpoint, returning base64 image bytes plus alt text.
type ImagenGenerator struct {
	config *config.GeneratorConfig
	client *http.Client
	logger *zap.Logger
}

func NewImagenGenerator(cfg *config.GeneratorConfig, logger *zap.Logger) *ImagenGenerator {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &ImagenGenerator{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (g *ImagenGenerator) Generate(ctx context.Context, title string) (*GeneratedImage, error) {
	body := map[string]any{
		"instances": []map[string]any{
			{"prompt": buildImagePrompt(title)},
		},
		"parameters": map[string]any{
			"sampleCount":      1,
			"aspectRatio":      "16:9",
			"personGeneration": "dont_allow",
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predict", g.config.Endpoint, g.config.ImageModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call image generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var response struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Predictions) == 0 || response.Predictions[0].BytesBase64Encoded == "" {
		return nil, fmt.Errorf("no image data received")
	}

	g.logger.Debug("Image generated", zap.String("title", title))

	return &GeneratedImage{
		Data: response.Predictions[0].BytesBase64Encoded,
		Alt:  buildImageAlt(title),
	}, nil
}

func buildImagePrompt(title string) string {
	return fmt.Sprintf(`Blog header image about %q for a web accessibility article. Minimal Precisionism style: clean geometric shapes, sharp focus, smooth surfaces, no people. IMPORTANT: absolutely no text, no letters, no words, no typography, no labels, no captions anywhere in the image.`, title)
}

func buildImageAlt(title string) string {
	return fmt.Sprintf("Illustration for the article %q", title)
}
