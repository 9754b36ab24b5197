// Package domain provides validated identifier primitives shared across modules.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "sadapurne/pkg/domain-errors"
)

// AadharLength is the number of digits in an Aadhar number.
const AadharLength = 12

// Aadhar is a 12-digit Aadhar number. Only the format is checked; the number
// is never validated against the issuing registry.
type Aadhar string

// VerificationID correlates one verification attempt across logs, spans and audit events.
type VerificationID uuid.UUID

// Parse functions - use at trust boundaries (handlers, API inputs).

// ParseAadhar accepts exactly twelve ASCII digits after trimming surrounding whitespace.
func ParseAadhar(s string) (Aadhar, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "aadhar cannot be empty")
	}
	if len(s) != AadharLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "aadhar must be exactly 12 digits")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "aadhar must contain only digits")
		}
	}
	return Aadhar(s), nil
}

// NewVerificationID returns a random verification ID.
func NewVerificationID() VerificationID {
	return VerificationID(uuid.New())
}

func (a Aadhar) String() string { return string(a) }

func (a Aadhar) IsNil() bool { return a == "" }

// Masked keeps the last four digits, e.g. "XXXXXXXX9012".
func (a Aadhar) Masked() string {
	if len(a) < 4 {
		return strings.Repeat("X", len(a))
	}
	return strings.Repeat("X", len(a)-4) + string(a[len(a)-4:])
}

func (id VerificationID) String() string { return uuid.UUID(id).String() }

func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
