// Package theme builds and repairs the on-disk icon theme that holds the
// compiled cursor and its alias symlinks.
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	// CursorsDir is the theme subdirectory holding cursor files.
	CursorsDir = "cursors"
	// IndexFile is the theme descriptor.
	IndexFile = "index.theme"
)

// FilesystemError reports a failed directory, link or file operation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Builder lays out a theme directory:
//
//	<Root>/cursors/<Canonical>   compiled cursor
//	<Root>/cursors/<alias>       symlink -> <Canonical>
//	<Root>/index.theme
type Builder struct {
	Root      string
	Name      string
	Canonical string
	Inherits  string
	Example   string
	Aliases   []string
	Log       zerolog.Logger
}

// CursorsPath returns <Root>/cursors.
func (b *Builder) CursorsPath() string {
	return filepath.Join(b.Root, CursorsDir)
}

// CanonicalPath returns the path every alias resolves to.
func (b *Builder) CanonicalPath() string {
	return filepath.Join(b.CursorsPath(), b.Canonical)
}

// IndexPath returns <Root>/index.theme.
func (b *Builder) IndexPath() string {
	return filepath.Join(b.Root, IndexFile)
}

// PendingSuffix marks a compiled cursor that has not been renamed into
// place yet.
const PendingSuffix = ".new"

// Prepare creates <Root>/cursors and drops a pending canonical cursor left
// by an interrupted run. It is safe to call on an existing tree.
func (b *Builder) Prepare() error {
	if err := os.MkdirAll(b.CursorsPath(), 0755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: b.CursorsPath(), Err: err}
	}
	pending := b.CanonicalPath() + PendingSuffix
	if err := os.Remove(pending); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Op: "remove", Path: pending, Err: err}
	}
	return nil
}

// probe returns the alias whose presence marks the farm as installed: the
// first one that is not the canonical cursor itself.
func (b *Builder) probe() (string, bool) {
	for _, name := range b.Aliases {
		if name != b.Canonical {
			return name, true
		}
	}
	return "", false
}

// AliasesInstalled reports whether the probe alias already exists.
func (b *Builder) AliasesInstalled() bool {
	name, ok := b.probe()
	if !ok {
		return false
	}
	_, err := os.Lstat(filepath.Join(b.CursorsPath(), name))
	return err == nil
}

// Report summarizes an alias installation.
type Report struct {
	// Skipped is set when the alias farm was already present.
	Skipped bool
	Created []string
	Failed  map[string]error
}

// InstallAliases links every alias to the canonical cursor unless the farm
// is already installed. A failing link is logged and recorded; the rest of
// the batch still runs.
func (b *Builder) InstallAliases() Report {
	if b.AliasesInstalled() {
		name, _ := b.probe()
		b.Log.Debug().Str("probe", name).Msg("aliases already installed")
		return Report{Skipped: true}
	}

	r := Report{Failed: map[string]error{}}
	for _, name := range b.Aliases {
		if name == b.Canonical {
			continue
		}
		link := filepath.Join(b.CursorsPath(), name)
		// Targets are relative to cursors/.
		if err := os.Symlink(b.Canonical, link); err != nil {
			b.Log.Warn().Err(err).Str("alias", name).Msg("create alias link")
			r.Failed[name] = &FilesystemError{Op: "symlink", Path: link, Err: err}
			continue
		}
		r.Created = append(r.Created, name)
	}
	b.Log.Info().Int("created", len(r.Created)).Int("failed", len(r.Failed)).Msg("installed cursor aliases")
	return r
}

// IndexContent returns the descriptor body.
func (b *Builder) IndexContent() string {
	return fmt.Sprintf("[Icon Theme]\nName=%s\nExample=%s\nInherits=%s", b.Name, b.Example, b.Inherits)
}

// WriteIndex writes index.theme if it does not exist yet. It returns true
// when the file was written by this call.
func (b *Builder) WriteIndex() (bool, error) {
	path := b.IndexPath()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, &FilesystemError{Op: "create", Path: path, Err: err}
	}

	if _, err := f.WriteString(b.IndexContent()); err != nil {
		f.Close()
		os.Remove(path)
		return false, &FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, &FilesystemError{Op: "write", Path: path, Err: err}
	}
	b.Log.Info().Str("path", path).Msg("wrote theme descriptor")
	return true, nil
}

// Cleanup removes every *.png directly under Root.
func (b *Builder) Cleanup() error {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &FilesystemError{Op: "read", Path: b.Root, Err: err}
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		path := filepath.Join(b.Root, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &FilesystemError{Op: "remove", Path: path, Err: err})
		}
	}
	return errors.Join(errs...)
}
