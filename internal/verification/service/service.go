// Package service runs the certificate verification pipeline.
//
// Stages run strictly in order: input validation, text extraction, field
// extraction, format validation, name match, income classification. The first
// failing stage ends the run. Persistence is attempted only after every stage
// passed, and a store failure never turns a verified claim into a failure.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"sadapurne/internal/certificate"
	"sadapurne/internal/certificate/extractor"
	"sadapurne/internal/document"
	"sadapurne/internal/platform/privacy"
	producermodels "sadapurne/internal/producer/models"
	"sadapurne/internal/verification/classify"
	"sadapurne/internal/verification/format"
	"sadapurne/internal/verification/metrics"
	"sadapurne/internal/verification/models"
	"sadapurne/internal/verification/namematch"
	id "sadapurne/pkg/domain"
	dErrors "sadapurne/pkg/domain-errors"
	"sadapurne/pkg/platform/audit"
	platformsync "sadapurne/pkg/platform/sync"
	"sadapurne/pkg/platform/tracer"
	"sadapurne/pkg/requestcontext"
)

// TextExtractor turns certificate bytes into text. Unreadable documents must
// fail with an error matching document.ErrExtraction; any other error is
// treated as an internal fault.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// ProducerStore persists verified producers, replacing any earlier record for the same Aadhar.
type ProducerStore interface {
	Save(ctx context.Context, p *producermodels.Producer) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	text       TextExtractor
	store      ProducerStore
	fields     *extractor.Extractor
	names      *namematch.Matcher
	format     *format.Validator
	classifier *classify.Classifier
	pins       *pinIssuer
	writes     *platformsync.ShardedMutex
	auditor    AuditPublisher
	tracer     tracer.Tracer
	metrics    *metrics.Metrics
	logger     *slog.Logger

	nameConfig   namematch.Config
	incomeConfig classify.Config
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithAuditPublisher enables the audit trail. Emission is best effort.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithNameConfig replaces the name matcher's affix lists and token length.
func WithNameConfig(cfg namematch.Config) Option {
	return func(s *Service) {
		s.nameConfig = cfg
	}
}

// WithIncomeConfig replaces the income tier thresholds.
func WithIncomeConfig(cfg classify.Config) Option {
	return func(s *Service) {
		s.incomeConfig = cfg
	}
}

// WithPINCost sets the bcrypt cost for PIN hashes.
func WithPINCost(cost int) Option {
	return func(s *Service) {
		s.pins.cost = cost
	}
}

// New wires the pipeline. Panics if a required dependency is missing or the
// policy is invalid; both are startup errors.
func New(text TextExtractor, store ProducerStore, opts ...Option) *Service {
	if text == nil {
		panic("verification.New: text extractor is required")
	}
	if store == nil {
		panic("verification.New: producer store is required")
	}
	s := &Service{
		text:         text,
		store:        store,
		fields:       extractor.New(),
		pins:         newPINIssuer(),
		writes:       platformsync.NewShardedMutex(),
		tracer:       tracer.NewNoop(),
		logger:       slog.Default(),
		nameConfig:   namematch.DefaultConfig(),
		incomeConfig: classify.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.nameConfig.Validate(); err != nil {
		panic(fmt.Sprintf("verification.New: %v", err))
	}
	if err := s.incomeConfig.Validate(); err != nil {
		panic(fmt.Sprintf("verification.New: %v", err))
	}
	s.names = namematch.New(s.nameConfig)
	s.format = format.New(s.names)
	s.classifier = classify.New(s.incomeConfig)
	return s
}

// run carries per-request values through the stages.
type run struct {
	id      id.VerificationID
	claim   models.Claim
	aadhar  id.Aadhar
	subject string
	now     time.Time
	record  certificate.Record
	report  format.Report
	name    namematch.Result
	outcome classify.Outcome
	state   models.State
}

// Verify runs the pipeline for one claim. Staged failures are returned as a
// failed Result with a nil error; the error is reserved for internal faults.
func (s *Service) Verify(ctx context.Context, claim models.Claim) (result *models.Result, err error) {
	start := time.Now()
	r := &run{
		id:    id.NewVerificationID(),
		claim: claim,
		now:   requestcontext.Now(ctx),
		state: models.StateReceivedClaim,
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrVerificationID, r.id.String()),
		tracer.String(tracer.AttrAadharHash, privacy.HashIdentifier(claim.Aadhar)),
	)
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "verification panicked",
				"verification_id", r.id.String(),
				"panic", rec,
			)
			result = nil
			err = dErrors.New(dErrors.CodeInternal, "verification failed unexpectedly")
		}
		span.End(err)
		if s.metrics != nil {
			s.metrics.ObserveVerification(time.Since(start))
		}
	}()

	result, err = s.pipeline(ctx, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification fault",
			"verification_id", r.id.String(),
			"state", string(r.state),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.RecordOutcome(string(models.StatusFailed), string(models.StageServerError))
		}
		return nil, err
	}

	span.SetAttributes(tracer.String(tracer.AttrStatus, string(result.Status)))
	s.recordOutcome(result)
	s.emitAudit(ctx, r, result)
	return result, nil
}

func (s *Service) pipeline(ctx context.Context, r *run) (*models.Result, error) {
	if failure := s.validateClaim(r); failure != nil {
		return failure, nil
	}

	text, failure, err := s.extractText(ctx, r)
	if err != nil || failure != nil {
		return failure, err
	}

	s.extractFields(ctx, r, text)
	r.state = models.StateExtracted

	if failure := s.validateFormat(ctx, r); failure != nil {
		return failure, nil
	}
	r.state = models.StateFormatChecked

	if failure := s.matchName(ctx, r); failure != nil {
		return failure, nil
	}
	r.state = models.StateNameChecked

	if failure := s.classify(ctx, r); failure != nil {
		return failure, nil
	}
	r.state = models.StateClassified

	return s.persist(ctx, r)
}

func (s *Service) validateClaim(r *run) *models.Result {
	aadhar, err := id.ParseAadhar(r.claim.Aadhar)
	if err != nil {
		return inputFailure("aadhar", "aadhar must be exactly 12 digits")
	}
	r.aadhar = aadhar
	r.subject = privacy.HashIdentifier(aadhar.String())

	if s.names.Normalize(r.claim.Name) == "" {
		return inputFailure("name", "name must contain at least one word")
	}
	if len(r.claim.Certificate) == 0 {
		return inputFailure("fssai_pdf", "certificate file is required")
	}
	income := r.claim.AnnualIncome
	if math.IsNaN(income) || math.IsInf(income, 0) || income < 0 {
		return inputFailure("annual_income", "annual income must be a non-negative number")
	}
	return nil
}

func inputFailure(field, message string) *models.Result {
	return models.Failed(models.StageInputValidation, message, map[string]any{"field": field})
}

func (s *Service) extractText(ctx context.Context, r *run) (string, *models.Result, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanExtractText)
	defer s.observeStage(models.StageExtraction, time.Now())

	text, err := s.text.ExtractText(ctx, r.claim.Certificate)
	if err != nil {
		if errors.Is(err, document.ErrExtraction) {
			span.End(nil)
			s.logger.InfoContext(ctx, "certificate text extraction failed",
				"verification_id", r.id.String(),
				"error", err,
			)
			return "", models.Failed(models.StageExtraction, extractionMessage(err), map[string]any{
				"reason": string(dErrors.CodeUnreadableDocument),
			}), nil
		}
		span.End(err)
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "text extraction failed")
	}
	span.SetAttributes(tracer.Int64(tracer.AttrTextLength, int64(len(text))))
	span.End(nil)
	return text, nil, nil
}

func extractionMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return "certificate text could not be extracted"
}

func (s *Service) extractFields(ctx context.Context, r *run, text string) {
	_, span := s.tracer.Start(ctx, tracer.SpanExtractFields)
	r.record = s.fields.Extract(text)
	span.SetAttributes(tracer.String(tracer.AttrCertificateType, r.record.Type.String()))
	span.End(nil)
	if s.metrics != nil {
		s.metrics.RecordCertificateType(r.record.Type.String())
	}
}

func (s *Service) validateFormat(ctx context.Context, r *run) *models.Result {
	_, span := s.tracer.Start(ctx, tracer.SpanFormatValidation)
	defer span.End(nil)
	defer s.observeStage(models.StageFormatValidation, time.Now())

	r.report = s.format.Validate(r.record, r.now)
	span.SetAttributes(tracer.Int64(tracer.AttrIssueCount, int64(len(r.report.Issues))))
	if r.report.Valid {
		return nil
	}
	if s.metrics != nil {
		for _, issue := range r.report.Issues {
			s.metrics.RecordFormatIssue(issue.Field, string(issue.Reason))
		}
	}
	result := models.Failed(models.StageFormatValidation, "certificate is missing required fields or has invalid values", map[string]any{
		"certificate_type": r.report.CertificateType.String(),
		"required_fields":  r.report.RequiredFields,
	})
	result.Failure.Issues = r.report.Issues
	return result
}

func (s *Service) matchName(ctx context.Context, r *run) *models.Result {
	_, span := s.tracer.Start(ctx, tracer.SpanNameMatch)
	defer span.End(nil)
	defer s.observeStage(models.StageNameMatch, time.Now())

	documentName, _ := r.record.BusinessName.Get()
	r.name = s.names.Match(r.claim.Name, documentName)
	span.SetAttributes(tracer.Bool(tracer.AttrNameMatched, r.name.Matched))
	if s.metrics != nil {
		s.metrics.RecordNameMatch(string(r.name.Method))
	}
	if r.name.Matched {
		return nil
	}
	return models.Failed(models.StageNameMatch, "name on certificate does not match the claimed name", map[string]any{
		"claimed_normalized":  r.name.Claimed,
		"document_normalized": r.name.Document,
	})
}

func (s *Service) classify(ctx context.Context, r *run) *models.Result {
	_, span := s.tracer.Start(ctx, tracer.SpanClassify)
	defer span.End(nil)
	defer s.observeStage(models.StageIncomeClassification, time.Now())

	r.outcome = s.classifier.Classify(r.record.Type, r.claim.AnnualIncome)
	span.SetAttributes(
		tracer.String(tracer.AttrCertificateType, r.outcome.Actual.String()),
		tracer.String(tracer.AttrExpectedType, r.outcome.Expected.String()),
	)
	if r.outcome.Passed {
		return nil
	}
	return models.Failed(models.StageIncomeClassification, r.outcome.Message, map[string]any{
		"expected_type":   r.outcome.Expected.String(),
		"actual_type":     r.outcome.Actual.String(),
		"declared_income": r.outcome.DeclaredIncome,
	})
}

// persist writes the producer. Only a failure to generate the PIN is an error;
// a store failure is logged and reported through DataStored.
func (s *Service) persist(ctx context.Context, r *run) (*models.Result, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPersist)

	pin, hash, err := s.pins.Issue()
	if err != nil {
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue PIN")
	}

	producer := s.buildProducer(r, hash)
	stored := true
	// Writes for one Aadhar are serialized.
	var saveErr error
	s.writes.With(r.aadhar.String(), func() { saveErr = s.store.Save(ctx, producer) })
	if err := saveErr; err != nil {
		stored = false
		s.logger.ErrorContext(ctx, "failed to persist verified producer",
			"verification_id", r.id.String(),
			"aadhar", r.aadhar.Masked(),
			"error", err,
		)
		s.emit(ctx, audit.Event{
			Action:         string(audit.EventProducerStoreFailed),
			VerificationID: r.id.String(),
			Subject:        r.subject,
			Reason:         "store_unavailable",
		})
	} else {
		r.state = models.StatePersisted
	}
	span.SetAttributes(tracer.Bool(tracer.AttrDataStored, stored))
	span.End(nil)
	if s.metrics != nil {
		s.metrics.RecordStoreWrite(stored)
	}

	verified := &models.Verified{
		Record:         r.record,
		Name:           r.name,
		Format:         r.report,
		Classification: r.outcome,
		DataStored:     stored,
	}
	// The PIN is only useful if its hash was kept.
	if stored {
		verified.PIN = pin
	}
	return &models.Result{
		Status:   models.StatusSuccess,
		State:    r.state,
		Verified: verified,
	}, nil
}

func (s *Service) buildProducer(r *run, pinHash []byte) *producermodels.Producer {
	issue, _ := r.record.IssueDate.Get()
	p := &producermodels.Producer{
		Aadhar:          r.aadhar,
		Name:            r.claim.Name,
		BusinessName:    r.record.BusinessName.ValueOr(""),
		LicenseNumber:   r.record.LicenseNumber.ValueOr(""),
		AnnualIncome:    r.claim.AnnualIncome,
		CertificateType: r.record.Type,
		BusinessType:    r.record.BusinessType.ValueOr(""),
		IssueDate:       issue,
		Address:         r.record.Address.ValueOr(""),
		PINHash:         pinHash,
		VerifiedAt:      r.now.UTC(),
	}
	if exp, ok := r.record.ExpiryDate.Get(); ok {
		p.ExpiryDate = &exp
	}
	return p
}

func (s *Service) observeStage(stage models.Stage, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStage(string(stage), time.Since(start))
	}
}

func (s *Service) recordOutcome(result *models.Result) {
	if s.metrics == nil {
		return
	}
	if result.Failure != nil {
		s.metrics.RecordOutcome(string(result.Status), string(result.Failure.Stage))
		return
	}
	s.metrics.RecordOutcome(string(result.Status), metrics.OutcomeSuccess)
}

func (s *Service) emitAudit(ctx context.Context, r *run, result *models.Result) {
	event := audit.Event{
		VerificationID:  r.id.String(),
		Subject:         r.subject,
		Decision:        string(result.Status),
		CertificateType: r.record.Type.String(),
	}
	if event.Subject == "" {
		// Claim rejected before the Aadhar was accepted.
		event.Subject = privacy.HashIdentifier(r.claim.Aadhar)
	}
	if result.Failure != nil {
		event.Action = string(audit.EventVerificationFailed)
		event.Stage = string(result.Failure.Stage)
		event.Reason = result.Failure.Message
	} else {
		event.Action = string(audit.EventVerificationSucceeded)
	}
	s.emit(ctx, event)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementAuditFailures()
		}
	}
}
