package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(dir, "content"), dir
}

func testArticle(title string) Article {
	return Article{
		Title:       title,
		Description: "desc",
		Content:     "# " + title,
		Date:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"x"},
		ContentPath: "content",
	}
}

func TestWriteCreatesFile(t *testing.T) {
	store, dir := testStore(t)

	result, err := store.Write(testArticle("My Post"))
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, filepath.Join(dir, "content", "2026", "04", "my-post", "index.md"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: \"My Post\"")
}

func TestWriteNeverOverwrites(t *testing.T) {
	store, _ := testStore(t)
	article := testArticle("My Post")

	first, err := store.Write(article)
	require.NoError(t, err)

	second, err := store.Write(article)
	require.NoError(t, err)
	assert.NotEqual(t, first.Path, second.Path)
	assert.True(t, strings.HasSuffix(second.Path, "index-2.md"))

	third, err := store.Write(article)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(third.Path, "index-3.md"))

	// First file is untouched
	original, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Contains(t, string(original), "My Post")
}

func TestReadRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	article := testArticle("Read Me")
	article.Image = "./hero.webp"
	article.ImageAlt = "alt text"

	_, err := store.Write(article)
	require.NoError(t, err)

	got, ok := store.Read("read-me")
	require.True(t, ok)
	assert.Equal(t, "Read Me", got.Title)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, "./hero.webp", got.Image)
	assert.Equal(t, "alt text", got.ImageAlt)
	assert.Equal(t, "# Read Me", got.Content)
	assert.Equal(t, "2026/04/read-me", got.ArticleID)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got.Date)
}

func TestReadUnknownSlug(t *testing.T) {
	store, _ := testStore(t)
	_, ok := store.Read("nope")
	assert.False(t, ok)
}

func TestFinderSkipsFoldersWithoutIndex(t *testing.T) {
	store, dir := testStore(t)

	// A slug folder with no index.md is not a valid article location
	empty := filepath.Join(dir, "content", "2026", "04", "ghost")
	require.NoError(t, os.MkdirAll(empty, 0755))

	_, ok := store.Read("ghost")
	assert.False(t, ok)
}

func TestFinderMissingRootIsNotFound(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), "content")
	_, ok := store.Read("anything")
	assert.False(t, ok)
}

func TestDeleteRemovesFolder(t *testing.T) {
	store, dir := testStore(t)
	_, err := store.Write(testArticle("Doomed"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("doomed"))
	_, statErr := os.Stat(filepath.Join(dir, "content", "2026", "04", "doomed"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteUnknownSlugFails(t *testing.T) {
	store, _ := testStore(t)
	err := store.Delete("missing")
	assert.True(t, errors.Is(err, ErrArticleNotFound))
}

func TestUpdateContentMergesFields(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Write(testArticle("Original"))
	require.NoError(t, err)

	err = store.UpdateContent("original", UpdateOptions{Description: strPtr("new description")})
	require.NoError(t, err)

	got, ok := store.Read("original")
	require.True(t, ok)
	assert.Equal(t, "Original", got.Title, "title must be untouched")
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, "# Original", got.Content, "body must be untouched")
	assert.Equal(t, []string{"x"}, got.Tags, "tags must be untouched")
}

func TestUpdateContentReplacesBody(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Write(testArticle("Original"))
	require.NoError(t, err)

	err = store.UpdateContent("original", UpdateOptions{Content: strPtr("# Rewritten")})
	require.NoError(t, err)

	got, ok := store.Read("original")
	require.True(t, ok)
	assert.Equal(t, "# Rewritten", got.Content)
	assert.Equal(t, "Original", got.Title)
}

func TestUpdateContentUnknownSlug(t *testing.T) {
	store, _ := testStore(t)
	err := store.UpdateContent("missing", UpdateOptions{Title: strPtr("x")})
	assert.True(t, errors.Is(err, ErrArticleNotFound))
}

func TestUpdateContentClearsFieldToEmpty(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Write(testArticle("Original"))
	require.NoError(t, err)

	// An explicit empty string clears the field; nil leaves it alone.
	err = store.UpdateContent("original", UpdateOptions{Description: strPtr("")})
	require.NoError(t, err)

	got, ok := store.Read("original")
	require.True(t, ok)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, "# Original", got.Content)
}

func TestList(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Write(testArticle("First"))
	require.NoError(t, err)

	second := testArticle("Second")
	second.Date = time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	_, err = store.Write(second)
	require.NoError(t, err)

	articles := store.List()
	require.Len(t, articles, 2)

	var titles []string
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	assert.ElementsMatch(t, []string{"First", "Second"}, titles)
}

func TestListMissingRoot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"), "content")
	assert.Empty(t, store.List())
}
