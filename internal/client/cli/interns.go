package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/spf13/cobra"
)

// ErrImportAborted is returned when the server stopped a bulk import early.
var ErrImportAborted = errors.New("import aborted")

func (r *root) internsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interns",
		Aliases: []string{"intern"},
		Short:   "Issue and browse intern certificates",
	}
	cmd.AddCommand(r.internAddCmd(), r.internImportCmd(), r.internListCmd(), r.internGetCmd())
	return cmd
}

func (r *root) internAddCmd() *cobra.Command {
	var in api.InternInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register one intern and issue a certificate id",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			intern, err := a.client.AddIntern(ctx, in)
			if err != nil {
				return err
			}
			return printIntern(a.out, intern)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&in.FullName, "name", "", "full name")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.Domain, "domain", "", "internship domain")
	f.StringVar(&in.StartDate, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&in.EndDate, "end", "", "end date, YYYY-MM-DD")
	f.StringVar(&in.Status, "status", "", "active, completed or terminated (default active)")
	return cmd
}

func (r *root) internImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Bulk register up to 100 interns from a CSV file",
		Long: "The file needs the header fullName,email,domain,startDate,endDate,status.\n" +
			"Rows are processed independently; a failing row does not stop the others.",
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			doc, err := readDocument(a, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.rpc(ctx)
			defer cancel()

			res, err := a.client.ImportInterns(ctx, doc)
			if err != nil {
				return err
			}
			if err := printImport(a.out, res); err != nil {
				return err
			}
			if res.Aborted {
				return fmt.Errorf("%w: %s", ErrImportAborted, res.Reason)
			}
			return nil
		}),
	}
}

func readDocument(a *App, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(a.reader)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func (r *root) internListCmd() *cobra.Command {
	var req api.ListInternsRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interns, newest first",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			page, err := a.client.ListInterns(ctx, req)
			if err != nil {
				return err
			}
			return printInternPage(a.out, page)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&req.Domain, "domain", "", "only this domain")
	f.StringVar(&req.Search, "search", "", "match name, email or certificate id")
	f.IntVar(&req.Page, "page", 1, "page number")
	f.IntVar(&req.PageSize, "page-size", 10, "rows per page, at most 100")
	return cmd
}

func (r *root) internGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one intern",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			intern, err := a.client.GetIntern(ctx, args[0])
			if err != nil {
				return err
			}
			return printIntern(a.out, intern)
		}),
	}
}

func (r *root) domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the distinct internship domains",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			domains, err := a.client.Domains(ctx)
			if err != nil {
				return err
			}
			for _, d := range domains {
				fmt.Fprintln(a.out, d)
			}
			return nil
		}),
	}
}

func (r *root) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, a *App, _ []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			st, err := a.client.Stats(ctx)
			if err != nil {
				return err
			}
			return printStats(a.out, st)
		}),
	}
}

func (r *root) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <certificate-id>",
		Short: "Look up a certificate as the public would",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, a *App, args []string) error {
			ctx, cancel := a.rpc(ctx)
			defer cancel()

			if !identity.IsCertificateID(args[0]) {
				fmt.Fprintf(a.errOut, "warning: %q does not look like a certificate id (CERT-<digits>-<9 characters>)\n", args[0])
			}

			cert, err := a.client.Verify(ctx, args[0])
			if err != nil {
				return err
			}
			return printCertificate(a.out, cert)
		}),
	}
}
