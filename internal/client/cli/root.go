package cli

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/client/config"
	"github.com/spf13/cobra"
)

// Opener builds the App for one command invocation.
type Opener func(ctx context.Context, cfg *config.Config) (*App, error)

type runFunc func(ctx context.Context, a *App, args []string) error

type root struct {
	open       Opener
	configFile string
	overrides  config.Config
}

// NewRootCmd returns the certifier command tree. Every subcommand loads the
// configuration, opens an App through open, runs and closes it.
func NewRootCmd(open Opener) *cobra.Command {
	r := &root{open: open}

	cmd := &cobra.Command{
		Use:           "certifier",
		Short:         "Operator console for the certificate issuance service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&r.configFile, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&r.overrides.ServerEndpointAddr, "server", "a", "", "server gRPC address (host:port)")
	pf.StringVar(&r.overrides.SessionFile, "session", "", "session file path")
	pf.DurationVar(&r.overrides.RequestTimeout, "timeout", 0, "per request timeout")

	cmd.AddCommand(
		r.registerCmd(),
		r.loginCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.pingCmd(),
		r.settingsCmd(),
		r.internsCmd(),
		r.domainsCmd(),
		r.statsCmd(),
		r.verifyCmd(),
	)
	return cmd
}

func (r *root) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(r.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerEndpointAddr = r.overrides.ServerEndpointAddr
	}
	if flags.Changed("session") {
		cfg.SessionFile = r.overrides.SessionFile
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = r.overrides.RequestTimeout
	}
	return cfg, nil
}

func (r *root) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := r.config(cmd)
		if err != nil {
			return err
		}

		a, err := r.open(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		a.out = cmd.OutOrStdout()
		a.errOut = cmd.ErrOrStderr()
		a.reader.Reset(cmd.InOrStdin())
		return fn(ctx, a, args)
	}
}
