package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aem-tools/groupctl/internal/consts"
)

func (a *App) installVersion() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns version of groupctl and exits",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.getVersion(cmd) },
	}
	a.rootCmd.AddCommand(cmd)
}

// getVersion returns the current version.
func (a *App) getVersion(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.name, consts.Version)
	return nil
}
