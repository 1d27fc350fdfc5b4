package validation

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SettingsInput is the branding an operator submits during setup.
type SettingsInput struct {
	CompanyName         string `json:"companyName" validate:"required"`
	CompanyLogo         string `json:"companyLogo" validate:"required,imageref"`
	SupervisorName      string `json:"supervisorName" validate:"required"`
	SupervisorSignature string `json:"supervisorSignature" validate:"required,imageref"`
	CEOName             string `json:"ceoName" validate:"required"`
	CEOSignature        string `json:"ceoSignature" validate:"required,imageref"`
	SelectedTemplate    string `json:"selectedTemplate" validate:"required,oneof=classic modern elegant"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return IsImageRef(fl.Field().String())
	})
	return v
}

// IsImageRef reports whether s is a data:image URL, an absolute http(s) URL
// or an s3://key reference.
func IsImageRef(s string) bool {
	if strings.HasPrefix(s, "data:image/") {
		return strings.Contains(s, ",")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "s3":
		return strings.TrimPrefix(s, "s3://") != ""
	default:
		return false
	}
}

// ValidateSettings trims s in place and reports the first invalid field.
func ValidateSettings(s *SettingsInput) error {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.CompanyLogo = strings.TrimSpace(s.CompanyLogo)
	s.SupervisorName = strings.TrimSpace(s.SupervisorName)
	s.SupervisorSignature = strings.TrimSpace(s.SupervisorSignature)
	s.CEOName = strings.TrimSpace(s.CEOName)
	s.CEOSignature = strings.TrimSpace(s.CEOSignature)
	s.SelectedTemplate = strings.TrimSpace(s.SelectedTemplate)

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return &Error{Kind: KindMissingField, Field: fe.Field()}
	case "imageref":
		return &Error{Kind: KindInvalidImage, Field: fe.Field()}
	case "oneof":
		return &Error{Kind: KindInvalidTemplate, Field: fe.Field()}
	default:
		return &Error{Field: fe.Field()}
	}
}
