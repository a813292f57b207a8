package theme

import (
	"os"
	"path/filepath"
	"time"
)

// Status describes what is currently installed.
type Status struct {
	Root           string
	CanonicalSize  int64
	CanonicalMTime time.Time
	HasCanonical   bool
	HasIndex       bool
	Aliases        int
	Dangling       []string
	Missing        []string
}

// Installed reports whether the theme is complete and usable.
func (s Status) Installed() bool {
	return s.HasCanonical && s.HasIndex && len(s.Missing) == 0 && len(s.Dangling) == 0
}

// Status inspects the theme directory without modifying it.
func (b *Builder) Status() Status {
	st := Status{Root: b.Root}

	if info, err := os.Stat(b.CanonicalPath()); err == nil && info.Mode().IsRegular() {
		st.HasCanonical = true
		st.CanonicalSize = info.Size()
		st.CanonicalMTime = info.ModTime()
	}
	if _, err := os.Stat(b.IndexPath()); err == nil {
		st.HasIndex = true
	}

	for _, name := range b.Aliases {
		if name == b.Canonical {
			continue
		}
		link := filepath.Join(b.CursorsPath(), name)
		if _, err := os.Lstat(link); err != nil {
			st.Missing = append(st.Missing, name)
			continue
		}
		if _, err := os.Stat(link); err != nil {
			st.Dangling = append(st.Dangling, name)
			continue
		}
		st.Aliases++
	}
	return st
}
