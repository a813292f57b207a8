package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JPM1118/cmredux/internal/config"
	"github.com/JPM1118/cmredux/internal/engine"
	"github.com/JPM1118/cmredux/internal/raster"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	themeDir string
	logLevel string

	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cmredux",
	Short: "CMRedux: turn GIF and PNG images into an X11 cursor theme",
	Long: `CMRedux converts a cursor image into a compiled Xcursor file, installs it
as an icon theme with every standard cursor name linked to it, and asks the
desktop to reload the theme.

Run without arguments to browse the cursor library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFrom(cfgPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		if themeDir != "" {
			cfg.Theme.Dir = config.ExpandHome(themeDir)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("--theme-dir: %w", err)
			}
		}

		logger, err = newLogger(os.Stderr, logLevel)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&themeDir, "theme-dir", "", "theme directory to install into")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// newLogger returns a console logger writing to w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("--log-level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// openLogFile opens the browser's log file for appending, creating its
// directory on first use.
func openLogFile() (*os.File, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
}

// newEngine checks the rasterizer tools and wires an engine from cfg.
func newEngine(log zerolog.Logger) (*engine.Engine, error) {
	tools := raster.Tools{Convert: cfg.Tools.Convert, Compile: cfg.Tools.Compile}
	if err := raster.CheckTools(tools); err != nil {
		return nil, err
	}
	return engine.New(cfg, log), nil
}
