// Package views converts stored records into the API representations shared
// by the gRPC and HTTP surfaces.
package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/datex"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
)

// AssetResolver turns a stored image reference into a URL a browser can load.
type AssetResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Intern renders i with its verification link under baseURL.
func Intern(i *models.Intern, baseURL string) api.Intern {
	link, err := services.VerificationURL(baseURL, i.CertificateID)
	if err != nil {
		link = ""
	}
	return api.Intern{
		ID:              i.ID,
		FullName:        i.FullName,
		Email:           i.Email,
		Domain:          i.Domain,
		StartDate:       datex.Format(i.StartDate),
		EndDate:         datex.Format(i.EndDate),
		Duration:        datex.Duration(i.StartDate, i.EndDate),
		CertificateID:   i.CertificateID,
		Status:          i.Status,
		CreatedAt:       i.CreatedAt,
		VerificationURL: link,
	}
}

func Interns(items []*models.Intern, baseURL string) []api.Intern {
	out := make([]api.Intern, 0, len(items))
	for _, i := range items {
		out = append(out, Intern(i, baseURL))
	}
	return out
}

func InternInput(in api.InternInput) validation.Candidate {
	return validation.Candidate{
		FullName:  in.FullName,
		Email:     in.Email,
		Domain:    in.Domain,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    in.Status,
	}
}

func Settings(s *models.Settings) api.Settings {
	return api.Settings{
		CompanyName:         s.CompanyName,
		CompanyLogo:         s.CompanyLogo,
		SupervisorName:      s.SupervisorName,
		SupervisorSignature: s.SupervisorSignature,
		CEOName:             s.CEOName,
		CEOSignature:        s.CEOSignature,
		SelectedTemplate:    s.SelectedTemplate,
		SetupCompleted:      s.SetupCompleted,
		CreatedAt:           s.CreatedAt,
	}
}

func SettingsInput(s api.Settings) validation.SettingsInput {
	return validation.SettingsInput{
		CompanyName:         s.CompanyName,
		CompanyLogo:         s.CompanyLogo,
		SupervisorName:      s.SupervisorName,
		SupervisorSignature: s.SupervisorSignature,
		CEOName:             s.CEOName,
		CEOSignature:        s.CEOSignature,
		SelectedTemplate:    s.SelectedTemplate,
	}
}

func Stats(s *models.Stats) api.Stats {
	return api.Stats{
		TotalInterns:          s.TotalInterns,
		GeneratedCertificates: s.GeneratedCertificates,
		ActiveInternships:     s.ActiveInternships,
		Verifications:         s.Verifications,
	}
}

func RowOutcomes(outcomes []services.RowOutcome) []api.RowOutcome {
	out := make([]api.RowOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		row := api.RowOutcome{Row: o.Row, Success: o.Success, CertificateID: o.CertificateID}
		if o.Error != nil {
			row.Error = rowError(o.Error)
		}
		out = append(out, row)
	}
	return out
}

// rowError keeps validation messages and reduces storage failures to a
// short reason, so driver text and internal ids stay on the server.
func rowError(err error) string {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, common.ErrAlreadyExists):
		return "certificate could not be issued: already exists"
	case errors.Is(err, common.ErrUnavailable):
		return common.ErrUnavailable.Error()
	default:
		return common.ErrorInternal.Error()
	}
}

// Certificate renders a verified certificate, resolving every branding image
// through r.
func Certificate(ctx context.Context, r AssetResolver, vc *services.VerifiedCertificate) (api.Certificate, error) {
	i, s, v := vc.Intern, vc.Settings, vc.Verification

	var logo, supervisorSig, ceoSig string
	for _, img := range []struct {
		ref string
		dst *string
	}{
		{s.CompanyLogo, &logo},
		{s.SupervisorSignature, &supervisorSig},
		{s.CEOSignature, &ceoSig},
	} {
		u, err := r.Resolve(ctx, img.ref)
		if err != nil {
			return api.Certificate{}, fmt.Errorf("resolve branding image: %w", err)
		}
		*img.dst = u
	}

	return api.Certificate{
		CertificateID:       i.CertificateID,
		InternName:          i.FullName,
		Domain:              i.Domain,
		StartDate:           datex.Format(i.StartDate),
		EndDate:             datex.Format(i.EndDate),
		Duration:            datex.Duration(i.StartDate, i.EndDate),
		Status:              i.Status,
		IssuedAt:            i.CreatedAt,
		CompanyName:         s.CompanyName,
		CompanyLogo:         logo,
		SupervisorName:      s.SupervisorName,
		SupervisorSignature: supervisorSig,
		CEOName:             s.CEOName,
		CEOSignature:        ceoSig,
		Template:            s.SelectedTemplate,
		VerificationCount:   v.Count,
		LastVerified:        v.LastVerified,
	}, nil
}
