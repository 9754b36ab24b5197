// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on the Tracer interface; production wiring uses OTelTracer
// and tests use NoopTracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span for child operations.
	//
	//   ctx, span := tr.Start(ctx, tracer.SpanNameMatch,
	//       tracer.String(tracer.AttrAadharHash, hashed),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names, one per verification stage.
const (
	SpanVerify           = "verification.verify"
	SpanExtractText      = "verification.extract_text"
	SpanExtractFields    = "verification.extract_fields"
	SpanFormatValidation = "verification.format_validation"
	SpanNameMatch        = "verification.name_match"
	SpanClassify         = "verification.income_classification"
	SpanPersist          = "verification.persist"
)

// Attribute keys.
const (
	AttrAadharHash      = "aadhar_hash"
	AttrVerificationID  = "verification_id"
	AttrStage           = "stage"
	AttrStatus          = "status"
	AttrCertificateType = "certificate_type"
	AttrExpectedType    = "expected_type"
	AttrNameMatched     = "name.matched"
	AttrIssueCount      = "format.issue_count"
	AttrTextLength      = "document.text_length"
	AttrDataStored      = "data_stored"
)

// Event names.
const (
	EventAuditEmitted = "audit.emitted"
)
