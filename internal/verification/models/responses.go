package models

import (
	"time"

	"sadapurne/internal/certificate"
	"sadapurne/internal/verification/format"
	"sadapurne/internal/verification/namematch"
)

// NameDetails is the name_details object of a successful verification.
type NameDetails struct {
	ProvidedName       string `json:"provided_name"`
	BusinessName       string `json:"business_name"`
	ClaimedNormalized  string `json:"claimed_normalized"`
	DocumentNormalized string `json:"document_normalized"`
	Method             string `json:"method"`
}

// VerifyResponse is the body of a successful POST /verify.
type VerifyResponse struct {
	Status          string        `json:"status"`
	Message         string        `json:"message"`
	NameDetails     NameDetails   `json:"name_details"`
	CertificateType string        `json:"certificate_type"`
	FormatDetails   format.Report `json:"format_details"`
	IssueDate       *string       `json:"issue_date"`
	ExpiryDate      *string       `json:"expiry_date"`
	Address         *string       `json:"address"`
	LicenseNumber   *string       `json:"license_number"`
	BusinessType    *string       `json:"business_type"`
	DataStored      bool          `json:"data_stored"`
	PIN             string        `json:"pin,omitempty"`
}

// FailureResponse is the body of every failed verification, staged or not.
type FailureResponse struct {
	Status  string         `json:"status"`
	Stage   Stage          `json:"stage"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
	Issues  []format.Issue `json:"issues,omitempty"`
}

const successMessage = "certificate verified"

// NewVerifyResponse renders a successful result. claimedName is the name as submitted.
func NewVerifyResponse(claimedName string, v *Verified) VerifyResponse {
	return VerifyResponse{
		Status:          string(StatusSuccess),
		Message:         successMessage,
		NameDetails:     newNameDetails(claimedName, v.Record.BusinessName.ValueOr(""), v.Name),
		CertificateType: v.Record.Type.String(),
		FormatDetails:   v.Format,
		IssueDate:       dateOrNil(v.Record.IssueDate),
		ExpiryDate:      dateOrNil(v.Record.ExpiryDate),
		Address:         stringOrNil(v.Record.Address),
		LicenseNumber:   stringOrNil(v.Record.LicenseNumber),
		BusinessType:    stringOrNil(v.Record.BusinessType),
		DataStored:      v.DataStored,
		PIN:             v.PIN,
	}
}

// NewFailureResponse renders a failed result. Details is never null.
func NewFailureResponse(f *Failure) FailureResponse {
	details := f.Details
	if details == nil {
		details = map[string]any{}
	}
	return FailureResponse{
		Status:  string(StatusFailed),
		Stage:   f.Stage,
		Message: f.Message,
		Details: details,
		Issues:  f.Issues,
	}
}

func newNameDetails(claimed, document string, r namematch.Result) NameDetails {
	return NameDetails{
		ProvidedName:       claimed,
		BusinessName:       document,
		ClaimedNormalized:  r.Claimed,
		DocumentNormalized: r.Document,
		Method:             string(r.Method),
	}
}

func stringOrNil(f certificate.Field[string]) *string {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

func dateOrNil(f certificate.Field[time.Time]) *string {
	if !f.IsFound() {
		return nil
	}
	s := certificate.FormatDate(f)
	return &s
}
