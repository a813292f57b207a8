package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JPM1118/cmredux/internal/engine"
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

var popup bool

var applyCmd = &cobra.Command{
	Use:   "apply <image>",
	Short: "Install an image as the cursor theme (non-interactive)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		var show notify.Popup
		if popup {
			show = &notify.DBusPopup{AppName: "cmredux", Timeout: -1}
		}

		eng, err := newEngine(logger)
		if err != nil {
			report(show, notify.FromError(err, time.Now()))
			return err
		}

		res, err := eng.Apply(cmd.Context(), source)
		if err != nil {
			report(show, notify.FromError(err, time.Now()))
			return err
		}

		report(show, appliedNotice(eng, filepath.Base(source), res))
		if res.Reload != nil {
			// The theme is installed; a missing reload is only a warning.
			n := notify.FromError(res.Reload, time.Now())
			fmt.Fprintln(os.Stderr, n.Text)
			report(show, n)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&popup, "popup", false, "also show the outcome as a desktop notification")
	rootCmd.AddCommand(applyCmd)
}

func appliedNotice(eng *engine.Engine, name string, res engine.Result) notify.Notice {
	text := fmt.Sprintf("Applied %s to theme %q (%s", name, eng.ThemeName(),
		english.Plural(len(res.Frames), "frame", ""))
	if !res.Aliases.Skipped {
		text += fmt.Sprintf(", %s", english.Plural(len(res.Aliases.Created), "alias", "aliases"))
	}
	text += ")"
	fmt.Println(text)
	for alias, err := range res.Aliases.Failed {
		fmt.Fprintf(os.Stderr, "alias %s: %v\n", alias, err)
	}
	return notify.Notice{Level: notify.LevelInfo, Text: text, Timestamp: time.Now()}
}

// report forwards n to the desktop popup when one is configured.
func report(p notify.Popup, n notify.Notice) {
	if p == nil {
		return
	}
	if err := p.Show(n); err != nil {
		logger.Warn().Err(err).Msg("desktop notification")
	}
}
