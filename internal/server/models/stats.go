package models

// Stats summarizes an account's interns for its dashboard.
type Stats struct {
	TotalInterns          int64
	GeneratedCertificates int64
	ActiveInternships     int64
	Verifications         int64
}
