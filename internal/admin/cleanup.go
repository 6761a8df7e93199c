package admin

import (
	"fmt"

	"github.com/dmitrijs2005/gophaccounts/internal/server"
	"github.com/dmitrijs2005/gophaccounts/internal/server/services"
	"github.com/spf13/cobra"
)

func newCleanupCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete accounts left unverified past the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStorage(cmd.Context(), func(st *server.Storage) error {
				removed, err := services.NewCleanupService(st.UoW, opts.cfg.UnverifiedRetention, opts.logger).Sweep(cmd.Context())
				if err != nil {
					return fmt.Errorf("cleanup failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d unverified account(s)\n", removed)
				return nil
			})
		},
	}
}
