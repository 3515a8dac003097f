package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrArticleNotFound reports a slug that does not resolve to an
// existing article folder.
var ErrArticleNotFound = errors.New("article not found")

// WriteResult reports where an article landed on disk. Path may carry
// a disambiguating suffix when the canonical filename was taken.
type WriteResult struct {
	Path    string
	Folder  string
	Created bool
}

// ArticleData is a stored article read back from disk.
type ArticleData struct {
	ArticleID   string
	Title       string
	Description string
	Date        time.Time
	CreatedAt   time.Time
	Tags        []string
	Image       string
	ImageAlt    string
	Content     string
	FolderPath  string
}

// UpdateOptions carries the fields of a partial content update. Nil
// fields are left untouched; a pointer to the empty string clears the
// field.
type UpdateOptions struct {
	Title       *string
	Description *string
	Content     *string
}

// Store reads and writes article directories under a content root.
// Writers never overwrite: a taken filename gets a -2, -3, ... sibling
// instead.
type Store struct {
	baseDir string
	finder  *Finder
}

// NewStore creates a store rooted at baseDir; article paths derived
// from an Article (which include the content root) resolve against it.
func NewStore(baseDir, contentRoot string) *Store {
	return &Store{
		baseDir: baseDir,
		finder:  NewFinder(filepath.Join(baseDir, contentRoot)),
	}
}

// Write persists an article, creating intermediate directories. If the
// exact target file exists it is never overwritten; the write probes
// index-2.md, index-3.md, ... until a free name is found.
func (s *Store) Write(article Article) (*WriteResult, error) {
	target := filepath.Join(s.baseDir, filepath.FromSlash(article.Filepath()))
	folder := filepath.Dir(target)

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create article folder: %w", err)
	}

	if fileExists(target) {
		target = uniqueFilepath(target)
	}

	if err := os.WriteFile(target, []byte(article.ToMarkdown()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write article: %w", err)
	}

	return &WriteResult{Path: target, Folder: folder, Created: true}, nil
}

// Read loads an article by slug. Missing or unreadable articles yield
// not-found.
func (s *Store) Read(slug string) (*ArticleData, bool) {
	location, ok := s.finder.FindBySlug(slug)
	if !ok {
		return nil, false
	}

	raw, err := os.ReadFile(location.IndexPath)
	if err != nil {
		return nil, false
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, false
	}

	data := &ArticleData{
		ArticleID:  location.ArticleID,
		Tags:       doc.GetList("tags"),
		Content:    strings.TrimSpace(doc.Body),
		FolderPath: location.FolderPath,
	}
	data.Title, _ = doc.Get("title")
	data.Description, _ = doc.Get("description")
	data.Image, _ = doc.Get("image")
	data.ImageAlt, _ = doc.Get("imageAlt")

	if v, ok := doc.Get("date"); ok {
		data.Date, _ = time.Parse("2006-01-02", v)
	}
	if v, ok := doc.Get("createdAt"); ok {
		data.CreatedAt, _ = time.Parse(time.RFC3339, v)
	}

	return data, true
}

// List returns every readable article in the tree. A missing root
// yields an empty list.
func (s *Store) List() []ArticleData {
	var articles []ArticleData

	base := s.finder.basePath
	for _, year := range s.finder.directories(base) {
		yearPath := filepath.Join(base, year)
		for _, month := range s.finder.directories(yearPath) {
			monthPath := filepath.Join(yearPath, month)
			for _, slug := range s.finder.directories(monthPath) {
				if article, ok := s.Read(slug); ok {
					articles = append(articles, *article)
				}
			}
		}
	}

	return articles
}

// Delete removes the article folder for slug recursively. A slug that
// does not resolve is a reportable error, not a silent no-op.
func (s *Store) Delete(slug string) error {
	location, ok := s.finder.FindBySlug(slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}

	return os.RemoveAll(location.FolderPath)
}

// UpdateContent merges the supplied fields into the stored document
// and rewrites it in place. Unset fields are left untouched.
func (s *Store) UpdateContent(slug string, opts UpdateOptions) error {
	location, ok := s.finder.FindBySlug(slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}

	raw, err := os.ReadFile(location.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to read article: %w", err)
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return fmt.Errorf("failed to parse article: %w", err)
	}

	if opts.Title != nil {
		doc.Set("title", *opts.Title)
	}
	if opts.Description != nil {
		doc.Set("description", *opts.Description)
	}
	if opts.Content != nil {
		doc.Body = *opts.Content
	}

	if err := os.WriteFile(location.IndexPath, []byte(doc.Render()), 0644); err != nil {
		return fmt.Errorf("failed to rewrite article: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func uniqueFilepath(target string) string {
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)

	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s-%d%s", base, counter, ext)
		if !fileExists(candidate) {
			return candidate
		}
	}
}
