package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aem-tools/groupctl/internal/granite"
	"github.com/aem-tools/groupctl/internal/group"
	"github.com/aem-tools/groupctl/internal/reconciler"
)

type applyOptions struct {
	id     string
	state  string
	name   string
	groups []string
	dryRun bool
}

func (a *App) installApply() {
	opts := applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile one declared group state",
		Long: `Fetches the current state of the group from the remote instance, compares it
to the declared state and issues the minimal set of changes. Prints the list
of performed actions when anything changed, and nothing otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error { return a.apply(cmd, opts) },
	}
	cmd.Flags().StringVar(&opts.id, "id", "", "authorizable ID of the group")
	cmd.Flags().StringVar(&opts.state, "state", "", `target state of the group: "present" or "absent"`)
	cmd.Flags().StringVar(&opts.name, "name", "", "display name of the group, required when creating it")
	cmd.Flags().StringSliceVar(&opts.groups, "groups", nil, "groups this group should be a member of (full list, compared case-insensitively)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compute and report changes without applying them")

	for _, flag := range []string{"id", "state"} {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			slog.Warn(fmt.Sprintf("Failed to mark --%s flag as required: %v", flag, err))
		}
	}

	a.rootCmd.AddCommand(cmd)
}

func (a *App) apply(cmd *cobra.Command, opts applyOptions) error {
	// Validate the declared state before anything touches the network.
	state, err := group.ParseState(opts.state)
	if err != nil {
		return err
	}

	client, err := granite.New(granite.Config{
		Host:     a.config.Host,
		Port:     a.config.Port,
		User:     a.config.AdminUser,
		Password: a.config.AdminPassword,
	})
	if err != nil {
		return err
	}

	res, err := reconciler.New(client, opts.dryRun).Apply(a.ctx, group.Desired{
		ID:          opts.id,
		DisplayName: opts.name,
		MemberOf:    opts.groups,
		State:       state,
	})
	if err != nil {
		return err
	}

	if res.Changed {
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	}
	return nil
}
