// Package engine runs the materialization pipeline: decode the source,
// describe its frames, rasterize and compile the cursor, lay out the theme
// and ask the desktop to reload it.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/JPM1118/cmredux/internal/config"
	"github.com/JPM1118/cmredux/internal/frames"
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/JPM1118/cmredux/internal/raster"
	"github.com/JPM1118/cmredux/internal/theme"
	"github.com/JPM1118/cmredux/internal/xcursor"
	"github.com/rs/zerolog"
)

// ErrBusy is returned by Apply while another Apply is still running.
var ErrBusy = errors.New("a cursor is already being applied")

// Result describes a successful Apply.
type Result struct {
	Frames       []frames.Frame
	Aliases      theme.Report
	IndexWritten bool
	// Reload holds the desktop reload outcome. A non-nil value does not
	// make the run a failure; the theme is installed either way.
	Reload error
}

// Engine owns one theme directory and serializes work on it.
type Engine struct {
	Builder  *theme.Builder
	Invoker  *raster.Invoker
	Reloader *notify.Reloader
	Options  xcursor.Options
	Log      zerolog.Logger

	mu sync.Mutex
}

// New wires an Engine from cfg using the real external tools.
func New(cfg config.Config, log zerolog.Logger) *Engine {
	aliases := cfg.Theme.Aliases
	if len(aliases) == 0 {
		aliases = theme.DefaultAliases
	}
	return &Engine{
		Builder: &theme.Builder{
			Root:      cfg.Theme.Dir,
			Name:      cfg.Theme.DisplayName,
			Canonical: cfg.Theme.Canonical,
			Inherits:  cfg.Theme.Inherits,
			Example:   cfg.Theme.Example,
			Aliases:   aliases,
			Log:       log.With().Str("component", "theme").Logger(),
		},
		Invoker: raster.NewInvoker(
			raster.Tools{Convert: cfg.Tools.Convert, Compile: cfg.Tools.Compile},
			log.With().Str("component", "raster").Logger(),
		),
		Reloader: &notify.Reloader{
			Runner: raster.ExecRunner{},
			Getenv: os.Getenv,
			Log:    log.With().Str("component", "notify").Logger(),
		},
		Options: xcursor.Options{
			Size: cfg.Cursor.Size,
			HotX: cfg.Cursor.HotspotX,
			HotY: cfg.Cursor.HotspotY,
		},
		Log: log,
	}
}

// ThemeName is the directory name the desktop knows the theme by.
func (e *Engine) ThemeName() string {
	return filepath.Base(e.Builder.Root)
}

// Apply materializes source as the theme's cursor. Intermediate frame files
// are removed before it returns, whatever the outcome.
func (e *Engine) Apply(ctx context.Context, source string) (Result, error) {
	if !e.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer e.mu.Unlock()

	log := e.Log.With().Str("source", source).Logger()
	log.Info().Msg("applying cursor")

	var res Result
	err := e.build(ctx, source, &res)
	if cErr := e.Builder.Cleanup(); cErr != nil {
		log.Warn().Err(cErr).Msg("remove intermediate frames")
	}
	if err != nil {
		log.Error().Err(err).Msg("apply failed")
		return Result{}, err
	}

	res.Reload = e.Reloader.Reload(ctx, e.ThemeName())
	log.Info().Int("frames", len(res.Frames)).AnErr("reload", res.Reload).Msg("cursor applied")
	return res, nil
}

func (e *Engine) build(ctx context.Context, source string, res *Result) error {
	if err := e.Builder.Prepare(); err != nil {
		return err
	}

	fs, err := frames.Extract(source)
	if err != nil {
		return err
	}
	cfg, err := xcursor.Generate(fs, e.Options)
	if err != nil {
		return err
	}

	if err := e.Invoker.Rasterize(ctx, source, e.Builder.Root, cfg, len(fs), e.Builder.CanonicalPath()); err != nil {
		return err
	}

	res.Frames = fs
	res.Aliases = e.Builder.InstallAliases()
	res.IndexWritten, err = e.Builder.WriteIndex()
	return err
}
