package generate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const maxFetchBytes = 2 << 20 // 2 MiB is plenty for a text article

// FetchedContent is a source page reduced to plain text.
type FetchedContent struct {
	URL     string
	Title   string
	Content string
}

// Fetcher retrieves source articles for URL-based generation.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var (
	titleRegex  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptRegex = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRegex    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRegex  = regexp.MustCompile(`\s+`)
)

// Fetch downloads a page and strips it down to title and readable
// text.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) (*FetchedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; scribe-content-bot)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read source body: %w", err)
	}

	html := string(body)

	title := ""
	if m := titleRegex.FindStringSubmatch(html); len(m) > 1 {
		title = strings.TrimSpace(m[1])
	}

	text := scriptRegex.ReplaceAllString(html, " ")
	text = tagRegex.ReplaceAllString(text, " ")
	text = spaceRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return &FetchedContent{
		URL:     sourceURL,
		Title:   title,
		Content: text,
	}, nil
}
