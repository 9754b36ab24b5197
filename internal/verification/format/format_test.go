package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"sadapurne/internal/certificate"
	"sadapurne/internal/verification/namematch"
)

type FormatSuite struct {
	suite.Suite
	validator *Validator
	now       time.Time
}

func TestFormatSuite(t *testing.T) {
	suite.Run(t, new(FormatSuite))
}

func (s *FormatSuite) SetupTest() {
	s.validator = New(namematch.New(namematch.DefaultConfig()))
	s.now = time.Date(2025, time.June, 1, 10, 30, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completeRecord(t certificate.Type) certificate.Record {
	return certificate.Record{
		BusinessName:  certificate.Found("RAJ TRADERS"),
		Type:          t,
		LicenseNumber: certificate.Found("21223010001234"),
		IssueDate:     certificate.Found(day(2023, time.April, 1)),
		ExpiryDate:    certificate.Found(day(2028, time.March, 31)),
		Address:       certificate.Found("Shop 12, Main Bazar, Sirsa"),
	}
}

func fields(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func (s *FormatSuite) TestCompleteRecordsPass() {
	for _, typ := range []certificate.Type{certificate.TypeBasicRegistration, certificate.TypeStateLicense, certificate.TypeCentralLicense, certificate.TypeUnknown} {
		report := s.validator.Validate(completeRecord(typ), s.now)
		s.True(report.Valid, typ)
		s.Empty(report.Issues, typ)
	}
}

func (s *FormatSuite) TestBasicRegistrationDoesNotRequireExpiry() {
	rec := completeRecord(certificate.TypeBasicRegistration)
	rec.ExpiryDate = certificate.Missing[time.Time]()

	report := s.validator.Validate(rec, s.now)
	s.True(report.Valid)
	s.NotContains(report.RequiredFields, FieldExpiryDate)
}

func (s *FormatSuite) TestLicensesRequireExpiry() {
	for _, typ := range []certificate.Type{certificate.TypeStateLicense, certificate.TypeCentralLicense, certificate.TypeUnknown} {
		rec := completeRecord(typ)
		rec.ExpiryDate = certificate.Missing[time.Time]()

		report := s.validator.Validate(rec, s.now)
		s.False(report.Valid, typ)
		s.Equal([]Issue{{Field: FieldExpiryDate, Reason: ReasonMissing, Message: "expiry date not found on certificate"}}, report.Issues)
	}
}

func (s *FormatSuite) TestIssuesFollowFieldOrder() {
	rec := certificate.Record{Type: certificate.TypeCentralLicense}

	report := s.validator.Validate(rec, s.now)
	s.False(report.Valid)
	s.Equal([]string{FieldBusinessName, FieldLicenseNumber, FieldAddress, FieldIssueDate, FieldExpiryDate}, fields(report.Issues))
	for _, issue := range report.Issues {
		s.Equal(ReasonMissing, issue.Reason)
	}
}

func (s *FormatSuite) TestNameWithoutIdentityIsMissing() {
	rec := completeRecord(certificate.TypeBasicRegistration)
	rec.BusinessName = certificate.Found("M/s")

	report := s.validator.Validate(rec, s.now)
	s.Require().Len(report.Issues, 1)
	s.Equal(FieldBusinessName, report.Issues[0].Field)
	s.Equal(ReasonMissing, report.Issues[0].Reason)
}

func (s *FormatSuite) TestInvalidValues() {
	tests := []struct {
		name    string
		mutate  func(*certificate.Record)
		field   string
		message string
	}{
		{
			name:    "short license number",
			mutate:  func(r *certificate.Record) { r.LicenseNumber = certificate.Found("2122301000") },
			field:   FieldLicenseNumber,
			message: "license number must be exactly 14 digits",
		},
		{
			name:    "non-digit license number",
			mutate:  func(r *certificate.Record) { r.LicenseNumber = certificate.Found("2122301000123A") },
			field:   FieldLicenseNumber,
			message: "license number must be exactly 14 digits",
		},
		{
			name:    "expiry before issue",
			mutate:  func(r *certificate.Record) { r.ExpiryDate = certificate.Found(day(2022, time.January, 1)) },
			field:   FieldExpiryDate,
			message: "expiry date is before issue date",
		},
		{
			name:    "expired",
			mutate:  func(r *certificate.Record) { r.ExpiryDate = certificate.Found(day(2025, time.May, 31)) },
			field:   FieldExpiryDate,
			message: "license expired",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := completeRecord(certificate.TypeStateLicense)
			tt.mutate(&rec)

			report := s.validator.Validate(rec, s.now)
			s.Require().Len(report.Issues, 1)
			s.Equal(Issue{Field: tt.field, Reason: ReasonInvalid, Message: tt.message}, report.Issues[0])
		})
	}
}

func (s *FormatSuite) TestExpiringTodayIsStillValid() {
	rec := completeRecord(certificate.TypeStateLicense)
	rec.ExpiryDate = certificate.Found(day(2025, time.June, 1))

	s.True(s.validator.Validate(rec, s.now).Valid)
}

func TestRequiredFields_UnknownUsesStrictestSchema(t *testing.T) {
	assert.Equal(t, RequiredFields(certificate.TypeCentralLicense), RequiredFields(certificate.TypeUnknown))
	assert.Len(t, RequiredFields(certificate.TypeBasicRegistration), 4)
}

func TestNew_PanicsWithoutNormalizer(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
