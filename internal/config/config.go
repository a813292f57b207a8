package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for cmredux.
type Config struct {
	Theme   ThemeConfig   `yaml:"theme"`
	Cursor  CursorConfig  `yaml:"cursor"`
	Tools   ToolsConfig   `yaml:"tools"`
	Library LibraryConfig `yaml:"library"`
}

// ThemeConfig describes the installed icon theme.
type ThemeConfig struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Dir         string   `yaml:"dir"`
	Canonical   string   `yaml:"canonical"`
	Inherits    string   `yaml:"inherits"`
	Example     string   `yaml:"example"`
	Aliases     []string `yaml:"aliases"`
}

// CursorConfig controls the generated xcursorgen config.
type CursorConfig struct {
	Size     int `yaml:"size"`
	HotspotX int `yaml:"hotspot_x"`
	HotspotY int `yaml:"hotspot_y"`
}

// ToolsConfig names the external rasterizer binaries.
type ToolsConfig struct {
	Convert string `yaml:"convert"`
	Compile string `yaml:"compile"`
}

// LibraryConfig controls where the browser looks for source images.
type LibraryConfig struct {
	Dir           string   `yaml:"dir"`
	Extensions    []string `yaml:"extensions"`
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// DefaultThemeName is the icon theme name registered with the desktop.
const DefaultThemeName = "cmcursor"

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Theme: ThemeConfig{
			Name:        DefaultThemeName,
			DisplayName: "CMRedux Cursor",
			Dir:         defaultThemeDir(DefaultThemeName),
			Canonical:   "pointer",
			Inherits:    "core",
			Example:     "left_ptr",
		},
		Cursor: CursorConfig{
			Size: 32,
		},
		Tools: ToolsConfig{
			Convert: "convert",
			Compile: "xcursorgen",
		},
		Library: LibraryConfig{
			Dir:           "./cursors",
			Extensions:    []string{".gif", ".png"},
			WatchDebounce: Duration{250 * time.Millisecond},
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error; defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	// A renamed theme without an explicit dir lives next to the default one.
	if cfg.Theme.Name != DefaultThemeName && cfg.Theme.Dir == Defaults().Theme.Dir {
		cfg.Theme.Dir = defaultThemeDir(cfg.Theme.Name)
	}
	cfg.Theme.Dir = ExpandHome(cfg.Theme.Dir)
	cfg.Library.Dir = ExpandHome(cfg.Library.Dir)
	cfg.Library.Extensions = normalizeExtensions(cfg.Library.Extensions)

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges. It is exported so flag overrides applied
// after loading can be re-checked.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Theme.Name) == "" {
		return fmt.Errorf("theme.name must not be empty")
	}
	if strings.ContainsRune(c.Theme.Name, filepath.Separator) {
		return fmt.Errorf("theme.name must not contain %q, got %q", filepath.Separator, c.Theme.Name)
	}
	if strings.TrimSpace(c.Theme.Canonical) == "" {
		return fmt.Errorf("theme.canonical must not be empty")
	}
	if c.Theme.Dir == "" {
		return fmt.Errorf("theme.dir must not be empty")
	}

	size := c.Cursor.Size
	if size < 8 || size > 256 {
		return fmt.Errorf("cursor.size must be between 8 and 256, got %d", size)
	}
	if c.Cursor.HotspotX < 0 || c.Cursor.HotspotX >= size {
		return fmt.Errorf("cursor.hotspot_x must be between 0 and %d, got %d", size-1, c.Cursor.HotspotX)
	}
	if c.Cursor.HotspotY < 0 || c.Cursor.HotspotY >= size {
		return fmt.Errorf("cursor.hotspot_y must be between 0 and %d, got %d", size-1, c.Cursor.HotspotY)
	}

	if c.Tools.Convert == "" || c.Tools.Compile == "" {
		return fmt.Errorf("tools.convert and tools.compile must be set")
	}

	for _, a := range c.Theme.Aliases {
		if a == "" || strings.ContainsRune(a, filepath.Separator) {
			return fmt.Errorf("invalid alias %q", a)
		}
	}

	if c.Library.WatchDebounce.Duration < 0 {
		return fmt.Errorf("library.watch_debounce must not be negative, got %s", c.Library.WatchDebounce)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func defaultThemeDir(name string) string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "icons", name)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "icons", name)
}

// Path returns the default config file location.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cmredux", "config.yml")
}

// LogPath returns the file the interactive browser logs to.
func LogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "cmredux.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "cmredux", "cmredux.log")
}
