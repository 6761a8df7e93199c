package admin

import (
	"fmt"

	"github.com/dmitrijs2005/gophaccounts/internal/server"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all up migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStorage(cmd.Context(), func(st *server.Storage) error {
				if err := st.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate up failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	})

	return migrateCmd
}
