package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/spf13/cobra"
)

// Test seams for the interactive helpers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) promptEmail(email string) (string, error) {
	if email != "" {
		return email, nil
	}
	return getSimpleText(a.in, "Enter email", a.out)
}

func (a *App) signupCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, err := a.promptEmail(email)
			if err != nil {
				return err
			}

			password, err := getPassword("Enter password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			confirmation, err := getPassword("Confirm password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(confirmation)

			u, err := a.auth.Signup(cmd.Context(), email, password, confirmation)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed up as %s\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, err := a.promptEmail(email)
			if err != nil {
				return err
			}

			password, err := getPassword("Enter password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			u, err := a.auth.Login(cmd.Context(), email, password)
			if errors.Is(err, client.ErrUnauthorized) {
				// Wrong credentials, not a stale session.
				return errors.New(err.Error())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server, the session and whether the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			fmt.Fprintf(a.out, "Server:  %s\n", a.cfg.ServerURL)

			email, err := a.auth.Restore(ctx)
			switch {
			case errors.Is(err, client.ErrNotLoggedIn):
				fmt.Fprintln(a.out, "Session: not logged in")
			case err != nil:
				return err
			default:
				fmt.Fprintf(a.out, "Session: %s\n", email)
			}

			if err := a.auth.Ping(ctx); err != nil {
				fmt.Fprintf(a.out, "Health:  %v\n", err)
				return nil
			}
			fmt.Fprintln(a.out, "Health:  ok")
			return nil
		},
	}
}
