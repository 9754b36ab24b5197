package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/export"
	"sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/models"
	"sadapurne/internal/producer/store"
	id "sadapurne/pkg/domain"
	"sadapurne/pkg/platform/audit"
)

type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) Emit(_ context.Context, e audit.Event) error {
	r.events = append(r.events, e)
	return nil
}

type brokenStore struct{}

func (brokenStore) FindByAadhar(context.Context, id.Aadhar) (*models.Producer, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) List(context.Context) ([]*models.Producer, error) {
	return nil, errors.New("connection reset")
}

type ProducerHandlerSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	audit   *recordingAudit
	metrics *metrics.Metrics
	router  chi.Router
}

func TestProducerHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProducerHandlerSuite))
}

func (s *ProducerHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = store.NewInMemoryStore()
	s.audit = &recordingAudit{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.router = chi.NewRouter()
	New(s.store, export.New(s.store, logger), logger,
		WithAuditPublisher(s.audit),
		WithMetrics(s.metrics),
	).Register(s.router)

	expiry := time.Date(2028, 3, 31, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(context.Background(), &models.Producer{
		Aadhar:          "123456789012",
		Name:            "Raj Traders",
		BusinessName:    "RAJ TRADERS",
		LicenseNumber:   "21223010001234",
		AnnualIncome:    200000,
		CertificateType: certificate.TypeBasicRegistration,
		IssueDate:       time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:      &expiry,
		Address:         "Shop 12, Main Bazar, Sirsa",
		PINHash:         []byte("$2a$10$hash"),
		VerifiedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}))
}

func (s *ProducerHandlerSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *ProducerHandlerSuite) TestList() {
	w := s.get("/producers")
	s.Equal(http.StatusOK, w.Code)

	var resp listResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("success", resp.Status)
	s.Equal(1, resp.Count)
	s.Require().Len(resp.Data, 1)
	s.Equal("XXXXXXXX9012", resp.Data[0].Aadhar)
	s.Equal("2028-03-31", *resp.Data[0].ExpiryDate)
	s.NotContains(w.Body.String(), "hash")
}

func (s *ProducerHandlerSuite) TestGet() {
	s.Run("found returns full aadhar", func() {
		w := s.get("/producers/123456789012")
		s.Equal(http.StatusOK, w.Code)

		var resp producerResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("123456789012", resp.Data.Aadhar)
		s.Equal("basic_registration", resp.Data.CertificateType)
		s.Nil(resp.Data.BusinessType)
	})

	s.Run("unknown aadhar is 404", func() {
		w := s.get("/producers/999999999999")
		s.Equal(http.StatusNotFound, w.Code)

		var resp failedResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("failed", resp.Status)
		s.NotEmpty(resp.Message)
	})

	s.Run("malformed aadhar is 400", func() {
		w := s.get("/producers/12ab")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ProducerHandlerSuite) TestExport() {
	w := s.get("/producers/export")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(export.ContentType, w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "verified-producers-")
	s.NotZero(w.Body.Len())

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ExportsTotal))
	s.Require().Len(s.audit.events, 1)
	s.Equal(string(audit.EventProducersExported), s.audit.events[0].Action)
	s.Equal("1 producers", s.audit.events[0].Reason)
}

func (s *ProducerHandlerSuite) TestStoreFailure() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	New(brokenStore{}, export.New(brokenStore{}, logger), logger).Register(router)

	for _, path := range []string{"/producers", "/producers/123456789012", "/producers/export"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusInternalServerError, w.Code, path)
		s.NotContains(w.Body.String(), "connection reset", path)
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewInMemoryStore()
	assert.Panics(t, func() { New(nil, export.New(s, logger), logger) })
	assert.Panics(t, func() { New(s, nil, logger) })
}
