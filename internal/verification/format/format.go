// Package format checks that a certificate record carries every field its
// certificate type requires, and that present values are well formed.
package format

import (
	"time"

	"sadapurne/internal/certificate"
)

// Field names used in issues, in the order they are checked.
const (
	FieldBusinessName  = "business_name"
	FieldLicenseNumber = "license_number"
	FieldAddress       = "address"
	FieldIssueDate     = "issue_date"
	FieldExpiryDate    = "expiry_date"
)

// LicenseNumberLength is the number of digits in an FSSAI registration or license number.
const LicenseNumberLength = 14

type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonInvalid Reason = "invalid"
)

type Issue struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// Report is the outcome of one validation. Issues is empty iff Valid.
type Report struct {
	CertificateType certificate.Type `json:"certificate_type"`
	RequiredFields  []string         `json:"required_fields"`
	Valid           bool             `json:"valid"`
	Issues          []Issue          `json:"issues,omitempty"`
}

var (
	licenseSchema = []string{FieldBusinessName, FieldLicenseNumber, FieldAddress, FieldIssueDate, FieldExpiryDate}

	schemas = map[certificate.Type][]string{
		certificate.TypeBasicRegistration: {FieldBusinessName, FieldLicenseNumber, FieldAddress, FieldIssueDate},
		certificate.TypeStateLicense:      licenseSchema,
		certificate.TypeCentralLicense:    licenseSchema,
	}
)

// RequiredFields returns the schema for t. Unknown types get the strictest schema.
func RequiredFields(t certificate.Type) []string {
	if s, ok := schemas[t]; ok {
		return s
	}
	return licenseSchema
}

// Normalizer reduces a business name to its comparison form.
type Normalizer interface {
	Normalize(name string) string
}

// Validator checks records against the per-type schemas.
type Validator struct {
	names Normalizer
}

// New returns a Validator. names decides when a business name carries no identity.
func New(names Normalizer) *Validator {
	if names == nil {
		panic("format: names normalizer required")
	}
	return &Validator{names: names}
}

// Validate checks rec as of now. Issues follow the fixed field order.
func (v *Validator) Validate(rec certificate.Record, now time.Time) Report {
	required := RequiredFields(rec.Type)
	req := make(map[string]bool, len(required))
	for _, f := range required {
		req[f] = true
	}

	var issues []Issue
	add := func(field string, reason Reason, msg string) {
		issues = append(issues, Issue{Field: field, Reason: reason, Message: msg})
	}

	name, ok := rec.BusinessName.Get()
	if (!ok || v.names.Normalize(name) == "") && req[FieldBusinessName] {
		add(FieldBusinessName, ReasonMissing, "business name not found on certificate")
	}

	if number, ok := rec.LicenseNumber.Get(); !ok {
		if req[FieldLicenseNumber] {
			add(FieldLicenseNumber, ReasonMissing, "license number not found on certificate")
		}
	} else if !isDigits(number, LicenseNumberLength) {
		add(FieldLicenseNumber, ReasonInvalid, "license number must be exactly 14 digits")
	}

	if addr, ok := rec.Address.Get(); (!ok || addr == "") && req[FieldAddress] {
		add(FieldAddress, ReasonMissing, "address not found on certificate")
	}

	issued, hasIssue := rec.IssueDate.Get()
	if !hasIssue && req[FieldIssueDate] {
		add(FieldIssueDate, ReasonMissing, "issue date not found on certificate")
	}

	if expiry, ok := rec.ExpiryDate.Get(); !ok {
		if req[FieldExpiryDate] {
			add(FieldExpiryDate, ReasonMissing, "expiry date not found on certificate")
		}
	} else if hasIssue && expiry.Before(issued) {
		add(FieldExpiryDate, ReasonInvalid, "expiry date is before issue date")
	} else if expiry.Before(startOfDay(now)) {
		add(FieldExpiryDate, ReasonInvalid, "license expired")
	}

	return Report{
		CertificateType: rec.Type,
		RequiredFields:  required,
		Valid:           len(issues) == 0,
		Issues:          issues,
	}
}

// A certificate stays valid through its expiry date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
