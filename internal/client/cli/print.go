package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/certifier/internal/api"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printFields writes label/value pairs as two aligned columns.
func printFields(w io.Writer, pairs ...string) error {
	tw := newTable(w)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	return tw.Flush()
}

func printSettings(w io.Writer, s *api.Settings) error {
	return printFields(w,
		"Company", s.CompanyName,
		"Logo", s.CompanyLogo,
		"Supervisor", s.SupervisorName,
		"Supervisor signature", s.SupervisorSignature,
		"CEO", s.CEOName,
		"CEO signature", s.CEOSignature,
		"Template", s.SelectedTemplate,
		"Setup completed", fmt.Sprint(s.SetupCompleted),
	)
}

func printIntern(w io.Writer, in *api.Intern) error {
	return printFields(w,
		"ID", in.ID,
		"Certificate", in.CertificateID,
		"Name", in.FullName,
		"Email", in.Email,
		"Domain", in.Domain,
		"Period", fmt.Sprintf("%s to %s (%s)", in.StartDate, in.EndDate, in.Duration),
		"Status", in.Status,
		"Verify at", in.VerificationURL,
	)
}

func printInternPage(w io.Writer, p *api.ListInternsResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CERTIFICATE\tNAME\tDOMAIN\tSTART\tEND\tSTATUS")
	for _, in := range p.Interns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", in.CertificateID, in.FullName, in.Domain, in.StartDate, in.EndDate, in.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d, %d of %d interns\n", p.Page, len(p.Interns), p.Total)
	return err
}

func printImport(w io.Writer, res *api.ImportInternsResponse) error {
	tw := newTable(w)
	for _, o := range res.Outcomes {
		if o.Success {
			fmt.Fprintf(tw, "row %d\tok\t%s\n", o.Row, o.CertificateID)
		} else {
			fmt.Fprintf(tw, "row %d\tfailed\t%s\n", o.Row, o.Error)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d imported, %d failed\n", res.Succeeded, res.Failed)
	return err
}

func printStats(w io.Writer, st *api.Stats) error {
	return printFields(w,
		"Total interns", fmt.Sprint(st.TotalInterns),
		"Certificates generated", fmt.Sprint(st.GeneratedCertificates),
		"Active internships", fmt.Sprint(st.ActiveInternships),
		"Verifications", fmt.Sprint(st.Verifications),
	)
}

func printCertificate(w io.Writer, c *api.Certificate) error {
	last := "never"
	if c.LastVerified != nil {
		last = c.LastVerified.Format(time.RFC3339)
	}
	return printFields(w,
		"Certificate", c.CertificateID,
		"Intern", c.InternName,
		"Domain", c.Domain,
		"Period", fmt.Sprintf("%s to %s (%s)", c.StartDate, c.EndDate, c.Duration),
		"Status", c.Status,
		"Issued", c.IssuedAt.Format(time.RFC3339),
		"Company", c.CompanyName,
		"Supervisor", c.SupervisorName,
		"CEO", c.CEOName,
		"Template", c.Template,
		"Verifications", fmt.Sprint(c.VerificationCount),
		"Last verified", last,
	)
}
