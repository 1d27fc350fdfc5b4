package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/client/client"
	"github.com/spf13/cobra"
)

func (r *root) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change company branding",
	}
	cmd.AddCommand(r.settingsShowCmd(), r.settingsSetCmd(), r.settingsUploadCmd())
	return cmd
}

func (r *root) settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current branding",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			s, err := a.client.GetSettings(ctx)
			if err != nil {
				return err
			}
			return printSettings(a.out, s)
		}),
	}
}

func (r *root) settingsSetCmd() *cobra.Command {
	var in api.Settings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Complete setup or update branding",
		Long: "Only the given flags change; the rest keep their stored values.\n" +
			"Images accept a data:image URL, an http(s) URL or an s3://key reference.",
		Args: cobra.NoArgs,
	}

	f := cmd.Flags()
	f.StringVar(&in.CompanyName, "company", "", "company name")
	f.StringVar(&in.CompanyLogo, "logo", "", "company logo image")
	f.StringVar(&in.SupervisorName, "supervisor", "", "supervisor name")
	f.StringVar(&in.SupervisorSignature, "supervisor-signature", "", "supervisor signature image")
	f.StringVar(&in.CEOName, "ceo", "", "CEO name")
	f.StringVar(&in.CEOSignature, "ceo-signature", "", "CEO signature image")
	f.StringVar(&in.SelectedTemplate, "template", "", "certificate template: classic, modern or elegant")

	cmd.RunE = r.run(func(ctx context.Context, a *App, _ []string) error {
		ctx, cancel := a.rpc(ctx)
		defer cancel()

		current, err := a.client.GetSettings(ctx)
		switch {
		case errors.Is(err, client.ErrNotFound):
			current = &api.Settings{}
		case err != nil:
			return err
		}

		overlay := map[string]struct {
			dst *string
			src string
		}{
			"company":              {&current.CompanyName, in.CompanyName},
			"logo":                 {&current.CompanyLogo, in.CompanyLogo},
			"supervisor":           {&current.SupervisorName, in.SupervisorName},
			"supervisor-signature": {&current.SupervisorSignature, in.SupervisorSignature},
			"ceo":                  {&current.CEOName, in.CEOName},
			"ceo-signature":        {&current.CEOSignature, in.CEOSignature},
			"template":             {&current.SelectedTemplate, in.SelectedTemplate},
		}
		for name, o := range overlay {
			if f.Changed(name) {
				*o.dst = o.src
			}
		}

		saved, err := a.client.SaveSettings(ctx, *current)
		if err != nil {
			return err
		}
		return printSettings(a.out, saved)
	})
	return cmd
}

func (r *root) settingsUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a logo or signature and print its s3:// reference",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			ref, err := a.client.UploadAsset(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, ref)
			return nil
		}),
	}
}
