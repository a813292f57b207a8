// Package notify tells the desktop session to reload the cursor theme and
// carries the user-visible notices produced along the way.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUnsupportedEnvironment matches every *UnsupportedEnvironmentError.
var ErrUnsupportedEnvironment = errors.New("unsupported desktop environment")

// UnsupportedEnvironmentError means no reload strategy exists for the
// session; the user has to switch themes by hand.
type UnsupportedEnvironmentError struct {
	Identity string
	Theme    string
}

func (e *UnsupportedEnvironmentError) Error() string {
	id := e.Identity
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("%s desktop environment is not supported; change your cursor theme to '%s' manually", id, e.Theme)
}

func (e *UnsupportedEnvironmentError) Is(target error) bool {
	return target == ErrUnsupportedEnvironment
}

// ReloadError reports a reload command that failed. The theme itself is
// installed.
type ReloadError struct {
	Identity string
	Err      error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload %s cursor theme: %v", e.Identity, e.Err)
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Runner runs one external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) error
}

// Identity reads the session's desktop identity, preferring DESKTOP_SESSION
// and falling back to the first entry of XDG_CURRENT_DESKTOP.
func Identity(getenv func(string) string) string {
	id := getenv("DESKTOP_SESSION")
	if id == "" {
		id = getenv("XDG_CURRENT_DESKTOP")
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[:i]
	}
	// DESKTOP_SESSION may be a session file path.
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	return id
}

// strategy sets the session's cursor theme property to a value.
type strategy struct {
	tool  string
	reset string
	args  func(value string) []string
}

func gsettings(schema string) strategy {
	return strategy{
		tool:  "gsettings",
		reset: "default",
		args: func(v string) []string {
			return []string{"set", schema, "cursor-theme", v}
		},
	}
}

var (
	xfce = strategy{
		tool:  "xfconf-query",
		reset: "default",
		args: func(v string) []string {
			return []string{"--channel", "xsettings", "--property", "/Gtk/CursorThemeName", "--set", v}
		},
	}
	gnome    = gsettings("org.gnome.desktop.interface")
	cinnamon = gsettings("org.cinnamon.desktop.interface")
	mate     = gsettings("org.mate.peripherals-mouse")
	plasma   = strategy{
		tool:  "plasma-apply-cursortheme",
		reset: "breeze_cursors",
		args: func(v string) []string {
			return []string{v}
		},
	}
)

var strategies = map[string]strategy{
	"xfce":           xfce,
	"xfce4":          xfce,
	"xubuntu":        xfce,
	"gnome":          gnome,
	"gnome-xorg":     gnome,
	"gnome-wayland":  gnome,
	"gnome-classic":  gnome,
	"ubuntu":         gnome,
	"ubuntu-wayland": gnome,
	"ubuntu-xorg":    gnome,
	"pop":            gnome,
	"budgie":         gnome,
	"budgie-desktop": gnome,
	"unity":          gnome,
	"cinnamon":       cinnamon,
	"cinnamon2d":     cinnamon,
	"x-cinnamon":     cinnamon,
	"mate":           mate,
	"kde":            plasma,
	"plasma":         plasma,
	"plasmawayland":  plasma,
	"plasmax11":      plasma,
}

// Supported reports whether identity has a reload strategy.
func Supported(identity string) bool {
	_, ok := strategies[identity]
	return ok
}

// Reloader activates a theme in the running session.
type Reloader struct {
	Runner Runner
	Getenv func(string) string
	Log    zerolog.Logger
}

// Reload switches the session to a neutral theme and then to theme, which
// forces running applications to pick up the new cursor files. Each command
// runs to completion before the next starts.
func (r *Reloader) Reload(ctx context.Context, theme string) error {
	id := Identity(r.Getenv)
	s, ok := strategies[id]
	if !ok {
		r.Log.Warn().Str("desktop", id).Msg("no cursor reload strategy")
		return &UnsupportedEnvironmentError{Identity: id, Theme: theme}
	}

	for _, value := range []string{s.reset, theme} {
		args := s.args(value)
		r.Log.Debug().Str("desktop", id).Str("tool", s.tool).Strs("args", args).Msg("reloading cursor theme")
		if err := r.Runner.Run(ctx, s.tool, args, nil); err != nil {
			return &ReloadError{Identity: id, Err: err}
		}
	}
	r.Log.Info().Str("desktop", id).Str("theme", theme).Msg("cursor theme reloaded")
	return nil
}
