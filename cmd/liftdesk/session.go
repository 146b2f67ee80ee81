package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"liftdesk/internal/api"
	"liftdesk/internal/auth"
)

type loginOptions struct {
	Email    string
	Password string
	Role     string
}

func newLoginCmd(a *app) *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login --email <email> [--role admin]",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Email) == "" {
				email, err := prompt(cmd, "Email: ")
				if err != nil {
					return err
				}
				opts.Email = email
			}
			if opts.Password == "" {
				password, err := readPassword(cmd)
				if err != nil {
					return err
				}
				opts.Password = password
			}

			sess, err := a.auth.Login(cmd.Context(), api.Credentials{
				Email:    strings.TrimSpace(opts.Email),
				Password: opts.Password,
				Role:     opts.Role,
			})
			if err != nil {
				return errors.Wrap(err, "login")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.User.Label("email", "name"), sess.Role())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&opts.Role, "role", "admin", "role to log in as")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.auth.Current()
			if errors.Is(err, auth.ErrNotLoggedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			// Refresh the profile so a revoked token shows up here
			user, err := a.client.Me(cmd.Context(), sess.Token)
			if api.IsUnauthorized(err) {
				return errors.New("session expired, run `liftdesk login`")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nrole: %s\n", user.Label("email", "name"), user.String("role"))
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(cmd, "Password: ")
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(b), nil
}
