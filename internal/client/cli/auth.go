package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// credentials takes the username from args when given and prompts for the
// rest.
func (a *App) credentials(args []string) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return "", "", err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (r *root) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create an operator account",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			username, password, err := a.credentials(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.rpc(ctx)
			defer cancel()
			if err := a.client.Register(ctx, username, password); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Registered %s\n", username)
			return nil
		}),
	}
}

func (r *root) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			username, password, err := a.credentials(args)
			if err != nil {
				return err
			}

			rctx, cancel := a.rpc(ctx)
			defer cancel()
			if err := a.client.Login(rctx, username, password); err != nil {
				return err
			}
			if err := a.session.SetUsername(ctx, username); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Logged in as %s\n", username)
			return nil
		}),
	}
}

func (r *root) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			if err := a.session.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}

func (r *root) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in operator",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			name, err := a.session.Username(ctx)
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			fmt.Fprintln(a.out, name)
			return nil
		}),
	}
}

func (r *root) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()
			if err := a.client.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "OK")
			return nil
		}),
	}
}
