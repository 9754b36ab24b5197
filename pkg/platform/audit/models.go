package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category       EventCategory `json:"category"`
	Timestamp      time.Time     `json:"timestamp"`
	VerificationID string        `json:"verification_id,omitempty"`
	// Subject is a one-way hash of the Aadhar; raw Aadhar numbers never enter the trail.
	Subject         string `json:"subject"`
	Action          string `json:"action"`
	Stage           string `json:"stage,omitempty"`
	Decision        string `json:"decision,omitempty"`
	Reason          string `json:"reason,omitempty"`
	CertificateType string `json:"certificate_type,omitempty"`
	RequestID       string `json:"request_id,omitempty"`
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

type EventCategory string

const (
	// CategoryCompliance covers decisions about producers and data disclosure.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers infrastructure faults around a decision.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventVerificationSucceeded AuditEvent = "verification_succeeded"
	EventVerificationFailed    AuditEvent = "verification_failed"
	EventProducerStoreFailed   AuditEvent = "producer_store_failed"
	EventProducersExported     AuditEvent = "producers_exported"
)

// Category maps an event to its category. Unknown events fall back to operations.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventVerificationSucceeded, EventVerificationFailed, EventProducersExported:
		return CategoryCompliance
	default:
		return CategoryOperations
	}
}
