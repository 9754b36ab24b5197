package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sadapurne/internal/producer/export"
	"sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
	dErrors "sadapurne/pkg/domain-errors"
	"sadapurne/pkg/platform/audit"
	"sadapurne/pkg/platform/httputil"
	"sadapurne/pkg/requestcontext"
)

// Reader is the read side of the producer store.
type Reader interface {
	FindByAadhar(ctx context.Context, aadhar id.Aadhar) (*models.Producer, error)
	List(ctx context.Context) ([]*models.Producer, error)
}

type Exporter interface {
	ExportXLSX(ctx context.Context) (*export.Workbook, error)
}

// AuditPublisher records disclosures of producer data.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Handler struct {
	store    Reader
	exporter Exporter
	audit    AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Handler)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(h *Handler) { h.audit = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(store Reader, exporter Exporter, logger *slog.Logger, opts ...Option) *Handler {
	if store == nil {
		panic("producer handler: store is required")
	}
	if exporter == nil {
		panic("producer handler: exporter is required")
	}
	h := &Handler{store: store, exporter: exporter, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the producer routes. The export route is static so chi
// matches it before the {aadhar} parameter.
func (h *Handler) Register(r chi.Router) {
	r.Get("/producers", h.HandleList)
	r.Get("/producers/export", h.HandleExport)
	r.Get("/producers/{aadhar}", h.HandleGet)
}

// exportSubject identifies the whole producer register in the audit trail.
const exportSubject = "verified_producers"

type listResponse struct {
	Status string                    `json:"status"`
	Count  int                       `json:"count"`
	Data   []models.ProducerResponse `json:"data"`
}

type producerResponse struct {
	Status string                  `json:"status"`
	Data   models.ProducerResponse `json:"data"`
}

type failedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleList returns every verified producer with masked Aadhar numbers.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	producers, err := h.store.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list producers",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		writeFailed(w, http.StatusInternalServerError, "error retrieving producer data")
		return
	}

	data := make([]models.ProducerResponse, 0, len(producers))
	for _, p := range producers {
		data = append(data, p.ToResponse(true))
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Status: "success", Count: len(data), Data: data})
}

// HandleGet returns one producer by Aadhar.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	aadhar, err := id.ParseAadhar(chi.URLParam(r, "aadhar"))
	if err != nil {
		writeFailed(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.FindByAadhar(ctx, aadhar)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			writeFailed(w, http.StatusNotFound, "no verified producer found with this aadhar number")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get producer",
			"request_id", requestcontext.RequestID(ctx),
			"aadhar", aadhar.Masked(),
			"error", err,
		)
		writeFailed(w, http.StatusInternalServerError, "error retrieving producer data")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, producerResponse{Status: "success", Data: p.ToResponse(false)})
}

// HandleExport streams an XLSX workbook of all producers.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	wb, err := h.exporter.ExportXLSX(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export producers",
			"request_id", requestID,
			"error", err,
		)
		writeFailed(w, http.StatusInternalServerError, "error exporting producer data")
		return
	}

	if h.metrics != nil {
		h.metrics.IncrementExports()
	}
	if h.audit != nil {
		event := audit.Event{
			Action:    string(audit.EventProducersExported),
			Subject:   exportSubject,
			Reason:    fmt.Sprintf("%d producers", wb.Rows),
			RequestID: requestID,
		}
		if err := h.audit.Emit(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "failed to emit export audit event",
				"request_id", requestID,
				"error", err,
			)
		}
	}

	filename := fmt.Sprintf("verified-producers-%s.xlsx", requestcontext.Now(ctx).UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wb.Data)
}

func writeFailed(w http.ResponseWriter, status int, message string) {
	httputil.WriteJSON(w, status, failedResponse{Status: "failed", Message: message})
}
