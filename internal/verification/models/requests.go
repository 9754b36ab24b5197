package models

import (
	"encoding/base64"

	s "sadapurne/pkg/string"
	"sadapurne/pkg/validation"
)

// VerifyRequest is the JSON body of POST /verify.
type VerifyRequest struct {
	Aadhar       string   `json:"aadhar" validate:"required,len=12,number"`
	Name         string   `json:"name" validate:"required,notblank,max=200"`
	FSSAIPDF     string   `json:"fssai_pdf" validate:"required,base64"`
	AnnualIncome *float64 `json:"annual_income" validate:"required,gte=0"`
}

func (r *VerifyRequest) Sanitize() {
	s.TrimStrings(&r.Aadhar, &r.Name, &r.FSSAIPDF)
}

func (r *VerifyRequest) Validate() error {
	return validation.Validate(r)
}

// ToClaim decodes the certificate. Validate must have passed.
func (r *VerifyRequest) ToClaim() (Claim, error) {
	pdf, err := base64.StdEncoding.DecodeString(r.FSSAIPDF)
	if err != nil {
		return Claim{}, err
	}
	return Claim{
		Aadhar:       r.Aadhar,
		Name:         r.Name,
		Certificate:  pdf,
		AnnualIncome: *r.AnnualIncome,
	}, nil
}
