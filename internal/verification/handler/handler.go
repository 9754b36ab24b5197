package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sadapurne/internal/platform/privacy"
	"sadapurne/internal/verification/models"
	"sadapurne/pkg/platform/httputil"
	"sadapurne/pkg/requestcontext"
	"sadapurne/pkg/validation"
)

// Service runs one verification.
type Service interface {
	Verify(ctx context.Context, claim models.Claim) (*models.Result, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the verification routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleIndex)
	r.Post("/verify", h.HandleVerify)
}

type indexResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

// HandleIndex describes the service and its endpoints.
func (h *Handler) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, indexResponse{
		Status:  "success",
		Service: "FSSAI producer verification",
		Endpoints: map[string]string{
			"POST /verify":            "verify an FSSAI certificate against a producer claim",
			"GET /producers":          "list verified producers",
			"GET /producers/{aadhar}": "get a verified producer",
			"GET /producers/export":   "download verified producers as a spreadsheet",
			"GET /health":             "health check",
			"GET /metrics":            "Prometheus metrics",
		},
	})
}

// HandleVerify handles POST /verify. Staged failures are 400, internal faults 500.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := httputil.DecodeAndPrepare[models.VerifyRequest](r)
	if err != nil {
		h.logger.InfoContext(ctx, "invalid verify request",
			"request_id", requestID,
			"error", err,
		)
		h.writeInputFailure(w, validation.FieldName(err), err.Error())
		return
	}

	claim, err := req.ToClaim()
	if err != nil {
		h.writeInputFailure(w, "fssai_pdf", "fssai_pdf must be base64 encoded")
		return
	}

	result, err := h.service.Verify(ctx, claim)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed with internal error",
			"request_id", requestID,
			"aadhar", privacy.MaskIdentifier(req.Aadhar),
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, models.FailureResponse{
			Status:  string(models.StatusFailed),
			Stage:   models.StageServerError,
			Message: "internal server error",
			Details: map[string]any{},
		})
		return
	}

	if !result.Succeeded() {
		h.logger.InfoContext(ctx, "verification rejected",
			"request_id", requestID,
			"aadhar", privacy.MaskIdentifier(req.Aadhar),
			"stage", string(result.Failure.Stage),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, models.NewFailureResponse(result.Failure))
		return
	}

	h.logger.InfoContext(ctx, "producer verified",
		"request_id", requestID,
		"aadhar", privacy.MaskIdentifier(req.Aadhar),
		"certificate_type", result.Verified.Record.Type.String(),
		"data_stored", result.Verified.DataStored,
	)
	httputil.WriteJSON(w, http.StatusOK, models.NewVerifyResponse(claim.Name, result.Verified))
}

func (h *Handler) writeInputFailure(w http.ResponseWriter, field, message string) {
	details := map[string]any{}
	if field != "" {
		details["field"] = field
	}
	httputil.WriteJSON(w, http.StatusBadRequest, models.FailureResponse{
		Status:  string(models.StatusFailed),
		Stage:   models.StageInputValidation,
		Message: message,
		Details: details,
	})
}
