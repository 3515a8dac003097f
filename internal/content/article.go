// Package content owns the on-disk article representation: the
// article value object, the front-matter document format, and the
// year/month/slug directory tree.
package content

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ncalabs/scribe/pkg/util"
)

// DefaultRoot is the default article content directory.
const DefaultRoot = "nca-ai-cms-content"

// SEO metadata length limits. Truncation applies only to the derived
// SEO view, never to stored content.
const (
	MaxSEOTitleLength       = 60
	MaxSEODescriptionLength = 155
)

// Article is the value object for one publishable article. It is
// constructed on demand and never mutated; every derived value is a
// pure function of its fields.
type Article struct {
	Title       string
	Description string
	Content     string
	Date        time.Time
	Tags        []string
	Image       string
	ImageAlt    string
	ContentPath string
}

func (a Article) root() string {
	if a.ContentPath == "" {
		return DefaultRoot
	}
	return a.ContentPath
}

func (a Article) Slug() string {
	return util.Slugify(a.Title)
}

func (a Article) Filename() string {
	return a.Slug() + ".md"
}

func (a Article) Year() int {
	return a.Date.Year()
}

func (a Article) Month() string {
	return fmt.Sprintf("%02d", int(a.Date.Month()))
}

// FolderPath is the canonical article folder, relative to the working
// directory: <root>/<YYYY>/<MM>/<slug>.
func (a Article) FolderPath() string {
	return path.Join(a.root(), fmt.Sprintf("%d", a.Year()), a.Month(), a.Slug())
}

func (a Article) Filepath() string {
	return path.Join(a.FolderPath(), "index.md")
}

// SEOTitle truncates the title for SEO metadata, ellipsis-suffixed
// when cut.
func (a Article) SEOTitle() string {
	return truncateSEO(a.Title, MaxSEOTitleLength)
}

// SEODescription truncates the description for SEO metadata.
func (a Article) SEODescription() string {
	return truncateSEO(a.Description, MaxSEODescriptionLength)
}

func truncateSEO(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

type frontmatterField struct {
	key   string
	value any
}

func (a Article) frontmatterFields() []frontmatterField {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	fields := []frontmatterField{
		{"title", a.Title},
		{"description", a.Description},
		{"date", a.Date.UTC().Format("2006-01-02")},
		{"createdAt", a.Date.UTC().Format(time.RFC3339)},
		{"tags", tags},
	}
	if a.Image != "" {
		fields = append(fields, frontmatterField{"image", a.Image})
	}
	if a.ImageAlt != "" {
		fields = append(fields, frontmatterField{"imageAlt", a.ImageAlt})
	}
	return fields
}

// ToMarkdown renders the stored document: a front-matter block with
// quoted scalars and JSON-encoded arrays, a blank line, then the raw
// content body.
func (a Article) ToMarkdown() string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range a.frontmatterFields() {
		switch v := f.value.(type) {
		case []string:
			encoded, _ := json.Marshal(v)
			fmt.Fprintf(&b, "%s: %s\n", f.key, encoded)
		default:
			fmt.Fprintf(&b, "%s: \"%s\"\n", f.key, util.EscapeYAML(fmt.Sprint(v)))
		}
	}
	b.WriteString("---\n\n")
	b.WriteString(a.Content)
	return b.String()
}
