package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/JPM1118/cmredux/internal/engine"
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print installed theme state (non-interactive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := engine.New(cfg, logger)
		st := eng.Builder.Status()
		if !st.HasCanonical && !st.HasIndex && st.Aliases == 0 {
			fmt.Printf("No cursor theme installed at %s.\n", st.Root)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tVALUE")
		fmt.Fprintln(w, "─────\t─────")
		fmt.Fprintf(w, "theme\t%s (%s)\n", eng.ThemeName(), complete(st.Installed()))
		fmt.Fprintf(w, "directory\t%s\n", st.Root)
		if st.HasCanonical {
			fmt.Fprintf(w, "cursor\t%s, updated %s\n", humanize.Bytes(uint64(st.CanonicalSize)), humanize.RelTime(st.CanonicalMTime, time.Now(), "ago", "from now"))
		} else {
			fmt.Fprintln(w, "cursor\tmissing")
		}
		fmt.Fprintf(w, "aliases\t%d linked, %d dangling, %d missing\n", st.Aliases, len(st.Dangling), len(st.Missing))
		fmt.Fprintf(w, "index.theme\t%s\n", yesNo(st.HasIndex))
		desktop := notify.Identity(os.Getenv)
		if desktop == "" {
			desktop = "unknown"
		}
		fmt.Fprintf(w, "desktop\t%s (reload %s)\n", desktop, supported(notify.Supported(desktop)))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func yesNo(b bool) string {
	if b {
		return "present"
	}
	return "missing"
}

func supported(b bool) string {
	if b {
		return "supported"
	}
	return "manual"
}

func complete(b bool) string {
	if b {
		return "complete"
	}
	return "incomplete"
}
