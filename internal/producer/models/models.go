// Package models holds the persisted record of a verified producer.
package models

import (
	"time"

	"sadapurne/internal/certificate"
	id "sadapurne/pkg/domain"
)

// Producer is written once per successful verification, keyed by Aadhar.
// A later verification of the same Aadhar replaces the whole record.
type Producer struct {
	Aadhar          id.Aadhar        `json:"aadhar"`
	Name            string           `json:"name"`
	BusinessName    string           `json:"business_name"`
	LicenseNumber   string           `json:"license_number"`
	AnnualIncome    float64          `json:"annual_income"`
	CertificateType certificate.Type `json:"certificate_type"`
	BusinessType    string           `json:"business_type,omitempty"`
	IssueDate       time.Time        `json:"issue_date"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	Address         string           `json:"address"`
	PINHash         []byte           `json:"-"`
	VerifiedAt      time.Time        `json:"verified_at"`
}

// ProducerResponse is the API view of a producer. Dates use certificate.DateLayout.
type ProducerResponse struct {
	Aadhar          string  `json:"aadhar"`
	Name            string  `json:"name"`
	BusinessName    string  `json:"business_name"`
	LicenseNumber   string  `json:"license_number"`
	AnnualIncome    float64 `json:"annual_income"`
	CertificateType string  `json:"certificate_type"`
	BusinessType    *string `json:"business_type"`
	IssueDate       string  `json:"issue_date"`
	ExpiryDate      *string `json:"expiry_date"`
	Address         string  `json:"address"`
	VerifiedAt      string  `json:"verified_at"`
}

// ToResponse renders p. When mask is set the Aadhar keeps only its last four digits.
func (p *Producer) ToResponse(mask bool) ProducerResponse {
	resp := ProducerResponse{
		Aadhar:          p.Aadhar.String(),
		Name:            p.Name,
		BusinessName:    p.BusinessName,
		LicenseNumber:   p.LicenseNumber,
		AnnualIncome:    p.AnnualIncome,
		CertificateType: p.CertificateType.String(),
		IssueDate:       p.IssueDate.Format(certificate.DateLayout),
		Address:         p.Address,
		VerifiedAt:      p.VerifiedAt.UTC().Format(time.RFC3339),
	}
	if mask {
		resp.Aadhar = p.Aadhar.Masked()
	}
	if p.BusinessType != "" {
		bt := p.BusinessType
		resp.BusinessType = &bt
	}
	if p.ExpiryDate != nil {
		exp := p.ExpiryDate.Format(certificate.DateLayout)
		resp.ExpiryDate = &exp
	}
	return resp
}
