package cmd

import (
	"fmt"
	"strings"

	"github.com/JPM1118/cmredux/internal/theme"
	"github.com/spf13/cobra"
)

var aliasesSep string

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Print the cursor names linked to the theme's cursor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := cfg.Theme.Aliases
		if len(names) == 0 {
			names = theme.DefaultAliases
		}
		sep := strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(aliasesSep)
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, sep))
		return nil
	},
}

func init() {
	aliasesCmd.Flags().StringVar(&aliasesSep, "sep", `\n`, "separator between names")
	rootCmd.AddCommand(aliasesCmd)
}
