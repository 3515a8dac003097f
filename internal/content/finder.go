package content

import (
	"os"
	"path/filepath"
)

// Location identifies an existing article folder found by slug.
type Location struct {
	FolderPath string
	IndexPath  string
	ArticleID  string // year/month/slug
}

// Finder discovers articles in the year/month/slug tree. The
// directory tree is the index; nothing else is persisted.
type Finder struct {
	basePath string
}

func NewFinder(basePath string) *Finder {
	return &Finder{basePath: basePath}
}

// FindBySlug walks the tree for a folder named slug that contains an
// index.md. Folders without an index document are skipped. A missing
// root or any traversal failure yields not-found rather than an
// error; callers cannot distinguish "never existed" from "storage
// unavailable" through this interface. When the same slug exists in
// several months, the first match in sorted traversal order wins.
func (f *Finder) FindBySlug(slug string) (*Location, bool) {
	for _, year := range f.directories(f.basePath) {
		yearPath := filepath.Join(f.basePath, year)

		for _, month := range f.directories(yearPath) {
			monthPath := filepath.Join(yearPath, month)

			for _, article := range f.directories(monthPath) {
				if article != slug {
					continue
				}

				folderPath := filepath.Join(monthPath, article)
				indexPath := filepath.Join(folderPath, "index.md")

				if info, err := os.Stat(indexPath); err != nil || info.IsDir() {
					// No index document, not a valid article folder
					continue
				}

				return &Location{
					FolderPath: folderPath,
					IndexPath:  indexPath,
					ArticleID:  year + "/" + month + "/" + article,
				}, true
			}
		}
	}

	return nil, false
}

func (f *Finder) directories(dirPath string) []string {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}
