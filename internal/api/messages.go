package api

import "time"

// InternInput is an intern as typed by an operator. Dates are YYYY-MM-DD;
// email and status are optional.
type InternInput struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email,omitempty"`
	Domain    string `json:"domain"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status,omitempty"`
}

type Intern struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email,omitempty"`
	Domain          string    `json:"domain"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Duration        string    `json:"duration"`
	CertificateID   string    `json:"certificateId"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	VerificationURL string    `json:"verificationUrl"`
}

type Settings struct {
	CompanyName         string    `json:"companyName"`
	CompanyLogo         string    `json:"companyLogo"`
	SupervisorName      string    `json:"supervisorName"`
	SupervisorSignature string    `json:"supervisorSignature"`
	CEOName             string    `json:"ceoName"`
	CEOSignature        string    `json:"ceoSignature"`
	SelectedTemplate    string    `json:"selectedTemplate"`
	SetupCompleted      bool      `json:"setupCompleted"`
	CreatedAt           time.Time `json:"createdAt,omitzero"`
}

// Certificate is the public view of a verified certificate. Image fields hold
// URLs a browser can load.
type Certificate struct {
	CertificateID       string     `json:"certificateId"`
	InternName          string     `json:"internName"`
	Domain              string     `json:"domain"`
	StartDate           string     `json:"startDate"`
	EndDate             string     `json:"endDate"`
	Duration            string     `json:"duration"`
	Status              string     `json:"status"`
	IssuedAt            time.Time  `json:"issuedAt"`
	CompanyName         string     `json:"companyName"`
	CompanyLogo         string     `json:"companyLogo"`
	SupervisorName      string     `json:"supervisorName"`
	SupervisorSignature string     `json:"supervisorSignature"`
	CEOName             string     `json:"ceoName"`
	CEOSignature        string     `json:"ceoSignature"`
	Template            string     `json:"template"`
	VerificationCount   int64      `json:"verificationCount"`
	LastVerified        *time.Time `json:"lastVerified,omitempty"`
}

type Stats struct {
	TotalInterns          int64 `json:"totalInterns"`
	GeneratedCertificates int64 `json:"generatedCertificates"`
	ActiveInternships     int64 `json:"activeInternships"`
	Verifications         int64 `json:"verifications"`
}

// RowOutcome is the result of one bulk import row; Row is 1-based.
type RowOutcome struct {
	Row           int    `json:"row"`
	Success       bool   `json:"success"`
	CertificateID string `json:"certificateId,omitempty"`
	Error         string `json:"error,omitempty"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type VerifyCertificateRequest struct {
	CertificateID string `json:"certificateId"`
}

type VerifyCertificateResponse struct {
	Certificate Certificate `json:"certificate"`
}

type SaveSettingsRequest struct {
	Settings Settings `json:"settings"`
}

type SaveSettingsResponse struct {
	Settings Settings `json:"settings"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings Settings `json:"settings"`
}

type AddInternRequest struct {
	Intern InternInput `json:"intern"`
}

type AddInternResponse struct {
	Intern Intern `json:"intern"`
}

// ImportInternsRequest carries a CSV document with the template header.
type ImportInternsRequest struct {
	CSV string `json:"csv"`
}

// ImportInternsResponse lists one outcome per processed row. Aborted is set
// when the batch stopped early; Reason then explains why and the rows after
// the last outcome were not attempted.
type ImportInternsResponse struct {
	Outcomes  []RowOutcome `json:"outcomes"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Aborted   bool         `json:"aborted,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}

type ListInternsRequest struct {
	Domain   string `json:"domain,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type ListInternsResponse struct {
	Interns  []Intern `json:"interns"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

type GetInternRequest struct {
	ID string `json:"id"`
}

type GetInternResponse struct {
	Intern Intern `json:"intern"`
}

type ListDomainsRequest struct{}

type ListDomainsResponse struct {
	Domains []string `json:"domains"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Stats Stats `json:"stats"`
}

// CreateAssetUploadRequest asks for a place to upload a branding image.
type CreateAssetUploadRequest struct {
	ContentType string `json:"contentType"`
}

// CreateAssetUploadResponse carries a presigned PUT URL and the s3://
// reference to put into settings once the upload succeeded.
type CreateAssetUploadResponse struct {
	Reference string `json:"reference"`
	UploadURL string `json:"uploadUrl"`
}
