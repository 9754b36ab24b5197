// Package certificate models the fields read from an FSSAI certificate.
//
// A Record is produced once per verification attempt and never mutated.
// Every field is explicitly found or missing; an empty string never stands in for absence.
package certificate

import (
	"encoding/json"
	"time"
)

// Type is the FSSAI certificate class. The set is closed.
type Type string

const (
	TypeBasicRegistration Type = "basic_registration"
	TypeStateLicense      Type = "state_license"
	TypeCentralLicense    Type = "central_license"
	TypeUnknown           Type = "unknown"
)

// Types lists the known certificate classes, excluding TypeUnknown.
var Types = []Type{TypeBasicRegistration, TypeStateLicense, TypeCentralLicense}

func (t Type) String() string { return string(t) }

// IsKnown reports whether t is one of the three certificate classes.
func (t Type) IsKnown() bool {
	switch t {
	case TypeBasicRegistration, TypeStateLicense, TypeCentralLicense:
		return true
	}
	return false
}

// ParseType maps a stored value back to a Type; anything unrecognised is TypeUnknown.
func ParseType(s string) Type {
	t := Type(s)
	if t.IsKnown() {
		return t
	}
	return TypeUnknown
}

// DateLayout is the layout used when dates leave the domain (JSON, storage, exports).
const DateLayout = "2006-01-02"

// Field holds a value that was either found in the document or is missing.
type Field[T any] struct {
	value T
	found bool
}

// Found wraps a value read from the document.
func Found[T any](v T) Field[T] {
	return Field[T]{value: v, found: true}
}

// Missing marks a field the document did not provide.
func Missing[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it was found.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.found
}

// IsFound reports whether the field was present in the document.
func (f Field[T]) IsFound() bool {
	return f.found
}

// ValueOr returns the value, or fallback when missing.
func (f Field[T]) ValueOr(fallback T) T {
	if !f.found {
		return fallback
	}
	return f.value
}

// MarshalJSON renders missing fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.found {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// Record is the structured content of one certificate.
type Record struct {
	BusinessName  Field[string]    `json:"business_name"`
	Type          Type             `json:"certificate_type"`
	LicenseNumber Field[string]    `json:"license_number"`
	IssueDate     Field[time.Time] `json:"issue_date"`
	ExpiryDate    Field[time.Time] `json:"expiry_date"`
	Address       Field[string]    `json:"address"`
	BusinessType  Field[string]    `json:"business_type"`
}

// FormatDate renders a date field with DateLayout, or "" when missing.
func FormatDate(f Field[time.Time]) string {
	v, ok := f.Get()
	if !ok {
		return ""
	}
	return v.Format(DateLayout)
}
