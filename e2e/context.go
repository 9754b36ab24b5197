package e2e

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sadapurne/internal/producer/export"
	producerhandler "sadapurne/internal/producer/handler"
	"sadapurne/internal/producer/store"
	verifyhandler "sadapurne/internal/verification/handler"
	"sadapurne/internal/verification/service"
	"sadapurne/pkg/platform/middleware/request"
	"sadapurne/pkg/requestcontext"
	"sadapurne/pkg/testutil"
)

// plainTextDocument stands in for the PDF extractor: the uploaded bytes are the certificate text.
type plainTextDocument struct{}

func (plainTextDocument) ExtractText(_ context.Context, content []byte) (string, error) {
	return string(content), nil
}

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	server *httptest.Server

	// Claim under construction.
	Aadhar       string
	Name         string
	AnnualIncome float64
	Certificate  string
	LastPIN      string
}

// NewTestContext starts an in-process server with an empty producer store.
func NewTestContext() *TestContext {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	producers := store.NewInMemoryStore()
	svc := service.New(plainTextDocument{}, producers,
		service.WithLogger(logger),
		service.WithPINCost(4),
	)

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.ClientMetadata)
	r.Use(fixedClock(testutil.FixedTime))
	r.Use(request.ContentTypeJSON)
	verifyhandler.New(svc, logger).Register(r)
	producerhandler.New(producers, export.New(producers, logger), logger).Register(r)

	srv := httptest.NewServer(r)
	return &TestContext{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		server:     srv,
	}
}

// fixedClock pins the request time seen by handlers.
func fixedClock(now time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now)))
		})
	}
}

// Close stops the in-process server.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// VerifyBody renders the current claim as a POST /verify body.
func (tc *TestContext) VerifyBody() map[string]any {
	return map[string]any{
		"aadhar":        tc.Aadhar,
		"name":          tc.Name,
		"fssai_pdf":     base64.StdEncoding.EncodeToString([]byte(tc.Certificate)),
		"annual_income": tc.AnnualIncome,
	}
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField resolves a dotted path such as "details.expected_type" in the JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	current := data
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %s: %s is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %s not found in response", field)
		}
	}
	return current, nil
}

func debugEnabled() bool {
	return os.Getenv("E2E_DEBUG") != ""
}
