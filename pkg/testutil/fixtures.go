package testutil

import (
	"time"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
)

// TestAadhars are valid, deterministic Aadhar numbers for test data.
var TestAadhars = struct {
	Raj   id.Aadhar
	Asha  id.Aadhar
	Mohan id.Aadhar
}{
	Raj:   "123456789012",
	Asha:  "210987654321",
	Mohan: "555566667777",
}

// FixedTime is the verification timestamp used by default.
var FixedTime = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

// ProducerBuilder provides a fluent interface for building verified producers.
type ProducerBuilder struct {
	producer *models.Producer
}

// NewProducerBuilder starts from a basic registration for Raj Traders.
func NewProducerBuilder() *ProducerBuilder {
	expiry := time.Date(2028, time.March, 31, 0, 0, 0, 0, time.UTC)
	return &ProducerBuilder{
		producer: &models.Producer{
			Aadhar:          TestAadhars.Raj,
			Name:            "Raj Traders",
			BusinessName:    "RAJ TRADERS",
			LicenseNumber:   "21223010001234",
			AnnualIncome:    200000,
			CertificateType: certificate.TypeBasicRegistration,
			BusinessType:    "Retail Trade",
			IssueDate:       time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			ExpiryDate:      &expiry,
			Address:         "Shop 12, Main Bazar, Sirsa, Haryana",
			PINHash:         []byte("$2a$10$hash"),
			VerifiedAt:      FixedTime,
		},
	}
}

func (b *ProducerBuilder) WithAadhar(aadhar id.Aadhar) *ProducerBuilder {
	b.producer.Aadhar = aadhar
	return b
}

func (b *ProducerBuilder) WithName(name string) *ProducerBuilder {
	b.producer.Name = name
	b.producer.BusinessName = name
	return b
}

func (b *ProducerBuilder) WithBusinessName(name string) *ProducerBuilder {
	b.producer.BusinessName = name
	return b
}

func (b *ProducerBuilder) WithIncome(income float64) *ProducerBuilder {
	b.producer.AnnualIncome = income
	return b
}

func (b *ProducerBuilder) WithCertificateType(t certificate.Type) *ProducerBuilder {
	b.producer.CertificateType = t
	return b
}

func (b *ProducerBuilder) WithBusinessType(businessType string) *ProducerBuilder {
	b.producer.BusinessType = businessType
	return b
}

// WithoutExpiry clears the expiry date, as on certificates without a validity period.
func (b *ProducerBuilder) WithoutExpiry() *ProducerBuilder {
	b.producer.ExpiryDate = nil
	return b
}

func (b *ProducerBuilder) VerifiedAt(t time.Time) *ProducerBuilder {
	b.producer.VerifiedAt = t
	return b
}

func (b *ProducerBuilder) Build() *models.Producer {
	p := *b.producer
	if b.producer.ExpiryDate != nil {
		expiry := *b.producer.ExpiryDate
		p.ExpiryDate = &expiry
	}
	p.PINHash = append([]byte(nil), b.producer.PINHash...)
	return &p
}
