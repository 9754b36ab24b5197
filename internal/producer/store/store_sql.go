package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
)

// SQLStore persists producers in the verified_producers table. The statements
// are valid for PostgreSQL (pgx) and SQLite (modernc.org/sqlite).
type SQLStore struct {
	db      *sql.DB
	backend string
	metrics *metrics.Metrics
}

// NewSQLStore wraps db. backend labels metrics ("postgres" or "sqlite"); metrics may be nil.
func NewSQLStore(db *sql.DB, backend string, m *metrics.Metrics) *SQLStore {
	return &SQLStore{db: db, backend: backend, metrics: m}
}

const producerColumns = `aadhar, name, business_name, license_number, annual_income,
		certificate_type, business_type, issue_date, expiry_date, address, pin_hash, verified_at`

func (s *SQLStore) Save(ctx context.Context, p *models.Producer) error {
	if p == nil {
		return fmt.Errorf("producer is required")
	}
	defer s.observe("save", time.Now())

	query := `
		INSERT INTO verified_producers (` + producerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (aadhar) DO UPDATE SET
			name = EXCLUDED.name,
			business_name = EXCLUDED.business_name,
			license_number = EXCLUDED.license_number,
			annual_income = EXCLUDED.annual_income,
			certificate_type = EXCLUDED.certificate_type,
			business_type = EXCLUDED.business_type,
			issue_date = EXCLUDED.issue_date,
			expiry_date = EXCLUDED.expiry_date,
			address = EXCLUDED.address,
			pin_hash = EXCLUDED.pin_hash,
			verified_at = EXCLUDED.verified_at
	`
	var businessType sql.NullString
	if p.BusinessType != "" {
		businessType = sql.NullString{String: p.BusinessType, Valid: true}
	}
	var expiry sql.NullTime
	if p.ExpiryDate != nil {
		expiry = sql.NullTime{Time: p.ExpiryDate.UTC(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		p.Aadhar.String(),
		p.Name,
		p.BusinessName,
		p.LicenseNumber,
		p.AnnualIncome,
		p.CertificateType.String(),
		businessType,
		p.IssueDate.UTC(),
		expiry,
		p.Address,
		p.PINHash,
		p.VerifiedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save producer: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByAadhar(ctx context.Context, aadhar id.Aadhar) (*models.Producer, error) {
	defer s.observe("find", time.Now())

	query := `SELECT ` + producerColumns + ` FROM verified_producers WHERE aadhar = $1`
	p, err := scanProducer(s.db.QueryRowContext(ctx, query, aadhar.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordLookup(false)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find producer: %w", err)
	}
	s.recordLookup(true)
	return p, nil
}

func (s *SQLStore) List(ctx context.Context) ([]*models.Producer, error) {
	defer s.observe("list", time.Now())

	query := `SELECT ` + producerColumns + ` FROM verified_producers ORDER BY verified_at DESC, aadhar`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}
	defer rows.Close()

	var out []*models.Producer
	for rows.Next() {
		p, err := scanProducer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producer: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate producers: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProducer(row rowScanner) (*models.Producer, error) {
	var (
		p            models.Producer
		aadhar       string
		certType     string
		businessType sql.NullString
		expiry       sql.NullTime
	)
	err := row.Scan(
		&aadhar,
		&p.Name,
		&p.BusinessName,
		&p.LicenseNumber,
		&p.AnnualIncome,
		&certType,
		&businessType,
		&p.IssueDate,
		&expiry,
		&p.Address,
		&p.PINHash,
		&p.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Aadhar = id.Aadhar(aadhar)
	p.CertificateType = certificate.ParseType(certType)
	p.BusinessType = businessType.String
	if expiry.Valid {
		exp := expiry.Time
		p.ExpiryDate = &exp
	}
	return &p, nil
}

func (s *SQLStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(s.backend, op, start)
	}
}

func (s *SQLStore) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordLookup(hit)
	}
}
