package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
)

const (
	redisProducerKeyPrefix = "producer:"
	redisProducerIndex     = "producers"
)

// RedisStore keeps each producer as a JSON document and indexes Aadhars in a
// sorted set scored by verification time.
type RedisStore struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewRedisStore constructs a Redis-backed producer store. metrics may be nil.
func NewRedisStore(client *redis.Client, m *metrics.Metrics) *RedisStore {
	return &RedisStore{client: client, metrics: m}
}

// redisProducer is the stored document. Unlike the API model it keeps the PIN hash.
type redisProducer struct {
	Aadhar          string     `json:"aadhar"`
	Name            string     `json:"name"`
	BusinessName    string     `json:"business_name"`
	LicenseNumber   string     `json:"license_number"`
	AnnualIncome    float64    `json:"annual_income"`
	CertificateType string     `json:"certificate_type"`
	BusinessType    string     `json:"business_type,omitempty"`
	IssueDate       time.Time  `json:"issue_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	Address         string     `json:"address"`
	PINHash         []byte     `json:"pin_hash"`
	VerifiedAt      time.Time  `json:"verified_at"`
}

// Save writes the document and its index entry in one transaction.
func (s *RedisStore) Save(ctx context.Context, p *models.Producer) error {
	if p == nil {
		return fmt.Errorf("producer is required")
	}
	defer s.observe("save", time.Now())

	payload, err := json.Marshal(toRedis(p))
	if err != nil {
		return fmt.Errorf("encode producer: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, producerKey(p.Aadhar), payload, 0)
		pipe.ZAdd(ctx, redisProducerIndex, redis.Z{
			Score:  float64(p.VerifiedAt.UnixNano()),
			Member: p.Aadhar.String(),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save producer: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByAadhar(ctx context.Context, aadhar id.Aadhar) (*models.Producer, error) {
	defer s.observe("find", time.Now())

	data, err := s.client.Get(ctx, producerKey(aadhar)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.recordLookup(false)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find producer: %w", err)
	}
	p, err := decodeProducer(data)
	if err != nil {
		return nil, err
	}
	s.recordLookup(true)
	return p, nil
}

// List reads the index newest first, then fetches the documents in one MGET.
// Index entries whose document has disappeared are skipped.
func (s *RedisStore) List(ctx context.Context) ([]*models.Producer, error) {
	defer s.observe("list", time.Now())

	members, err := s.client.ZRevRange(ctx, redisProducerIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list producer index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = redisProducerKeyPrefix + m
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}

	out := make([]*models.Producer, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		p, err := decodeProducer([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sortNewestFirst(out)
	return out, nil
}

func decodeProducer(data []byte) (*models.Producer, error) {
	var r redisProducer
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode producer: %w", err)
	}
	return fromRedis(&r), nil
}

func toRedis(p *models.Producer) *redisProducer {
	return &redisProducer{
		Aadhar:          p.Aadhar.String(),
		Name:            p.Name,
		BusinessName:    p.BusinessName,
		LicenseNumber:   p.LicenseNumber,
		AnnualIncome:    p.AnnualIncome,
		CertificateType: p.CertificateType.String(),
		BusinessType:    p.BusinessType,
		IssueDate:       p.IssueDate.UTC(),
		ExpiryDate:      p.ExpiryDate,
		Address:         p.Address,
		PINHash:         p.PINHash,
		VerifiedAt:      p.VerifiedAt.UTC(),
	}
}

func fromRedis(r *redisProducer) *models.Producer {
	return &models.Producer{
		Aadhar:          id.Aadhar(r.Aadhar),
		Name:            r.Name,
		BusinessName:    r.BusinessName,
		LicenseNumber:   r.LicenseNumber,
		AnnualIncome:    r.AnnualIncome,
		CertificateType: certificate.ParseType(r.CertificateType),
		BusinessType:    r.BusinessType,
		IssueDate:       r.IssueDate,
		ExpiryDate:      r.ExpiryDate,
		Address:         r.Address,
		PINHash:         r.PINHash,
		VerifiedAt:      r.VerifiedAt,
	}
}

func producerKey(aadhar id.Aadhar) string {
	return redisProducerKeyPrefix + aadhar.String()
}

func (s *RedisStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation("redis", op, start)
	}
}

func (s *RedisStore) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordLookup(hit)
	}
}
