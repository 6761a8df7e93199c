package admin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophaccounts/internal/server"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

var errPasswordMismatch = errors.New("passwords do not match")

type createAdminFlags struct {
	email         string
	name          string
	surname       string
	role          string
	passwordStdin bool
}

func newCreateAdminCommand(opts *options) *cobra.Command {
	f := &createAdminFlags{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified account, an admin by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := f.readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return opts.withStorage(cmd.Context(), func(st *server.Storage) error {
				svc := server.NewAuthService(opts.cfg, st, nil, opts.logger)
				view, err := svc.Provision(cmd.Context(), models.SignupInput{
					Email:    f.email,
					Password: password,
					Name:     f.name,
					Surname:  f.surname,
					Role:     models.Role(f.role),
				})
				if err != nil {
					return fmt.Errorf("create %s: %w", f.role, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", view.Role, view.ID, view.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.name, "name", "", "given name")
	cmd.Flags().StringVar(&f.surname, "surname", "", "family name")
	cmd.Flags().StringVar(&f.role, "role", string(models.RoleAdmin), "account role (user or admin)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword takes the password from the first stdin line with
// --password-stdin, otherwise prompts twice on the terminal.
func (f *createAdminFlags) readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f.passwordStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(prompt, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(prompt, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}
