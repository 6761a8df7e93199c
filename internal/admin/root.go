// Package admin implements the operator command line: schema migrations,
// provisioning of privileged accounts and one-off cleanup sweeps.
package admin

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server"
	"github.com/dmitrijs2005/gophaccounts/internal/server/config"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	cfg        *config.Config
	logger     logging.Logger
}

// NewRootCommand returns the admin command tree. Log lines go to logOut.
func NewRootCommand(logOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gophaccounts-admin",
		Short:         "Operator tools for the gophaccounts server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.NewJSONLogger(logOut, cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a JSON config file")

	root.AddCommand(
		newMigrateCommand(opts),
		newCreateAdminCommand(opts),
		newCleanupCommand(opts),
	)

	return root
}

// withStorage opens storage for the duration of fn.
func (o *options) withStorage(ctx context.Context, fn func(st *server.Storage) error) error {
	st, err := server.OpenStorage(ctx, o.cfg, o.logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return fn(st)
}
