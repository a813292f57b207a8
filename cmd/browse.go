package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/JPM1118/cmredux/internal/library"
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/JPM1118/cmredux/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive cursor library browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse() error {
	// The alt screen owns the terminal; logs go to a file.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	log, err := newLogger(logFile, logLevel)
	if err != nil {
		return err
	}

	notices := notify.NewNotices(20)
	bell := notify.NewBell(30*time.Second, notify.LevelWarn)
	opts := []tui.BrowserOption{
		tui.WithBell(bell),
		tui.WithNotices(notices),
	}

	// Missing tools leave the browser usable for looking around.
	if eng, err := newEngine(log); err != nil {
		log.Warn().Err(err).Msg("rasterizer tools unavailable")
		notices.Push(notify.FromError(err, time.Now()))
	} else {
		opts = append(opts, tui.WithApplier(eng), tui.WithThemeName(eng.ThemeName()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if w, err := library.NewWatcher(cfg.Library.Dir, cfg.Library.WatchDebounce.Duration, log); err != nil {
		log.Warn().Err(err).Str("dir", cfg.Library.Dir).Msg("library watcher disabled")
	} else {
		w.Start(ctx)
		opts = append(opts, tui.WithUpdates(w.Updates()))
	}

	src := &library.Dir{Root: cfg.Library.Dir, Extensions: cfg.Library.Extensions}
	model := tui.NewBrowser(src, opts...)

	program := tea.NewProgram(model, tea.WithAltScreen())

	_, err = program.Run()
	cancel() // Stop watcher
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
