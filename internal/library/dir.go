// Package library lists the source cursor images available for selection.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// Category is a directory of cursor images. Nested directories are listed
// after their parent with Depth incremented.
type Category struct {
	Label string
	Path  string
	Depth int
}

// Cursor is a selectable source image.
type Cursor struct {
	Name string
	Path string
	Size int64
}

// FormatSize returns a human-readable file size like "12 kB".
func (c Cursor) FormatSize() string {
	if c.Size <= 0 {
		return "—"
	}
	return humanize.Bytes(uint64(c.Size))
}

// Dir reads categories and cursors from a directory tree.
type Dir struct {
	Root string
	// Extensions restricts listed cursors to these lower-case suffixes.
	// Empty means every regular file.
	Extensions []string
}

var _ Source = (*Dir)(nil)

// Categories walks Root depth-first and returns every directory below it.
func (d *Dir) Categories() ([]Category, error) {
	var out []Category
	if err := d.walk(d.Root, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dir) walk(dir string, depth int, out *[]Category) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read library %s: %w", dir, err)
	}
	for _, e := range sortedEntries(entries) {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		*out = append(*out, Category{
			Label: CategoryLabel(e.Name()),
			Path:  path,
			Depth: depth,
		})
		if err := d.walk(path, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// Cursors returns the image files directly inside a category.
func (d *Dir) Cursors(category Category) ([]Cursor, error) {
	entries, err := os.ReadDir(category.Path)
	if err != nil {
		return nil, fmt.Errorf("read category %s: %w", category.Label, err)
	}

	var out []Cursor
	for _, e := range sortedEntries(entries) {
		if !e.Type().IsRegular() || !d.accepts(e.Name()) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		out = append(out, Cursor{
			Name: e.Name(),
			Path: filepath.Join(category.Path, e.Name()),
			Size: size,
		})
	}
	return out, nil
}

func (d *Dir) accepts(name string) bool {
	if len(d.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range d.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func sortedEntries(entries []os.DirEntry) []os.DirEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
	return entries
}

// CategoryLabel title-cases each word of a directory name and shows
// " - " separators as "/", so "arrows - ANIMATED" becomes "Arrows/Animated".
func CategoryLabel(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(strings.Split(strings.Join(words, " "), " - "), "/")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
