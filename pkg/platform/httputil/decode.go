package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "sadapurne/pkg/domain-errors"
)

// Decode reads a JSON body into T and reports failures as domain errors,
// leaving the response untouched so callers can choose their error envelope.
func Decode[T any](r *http.Request) (*T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body too large")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return &req, nil
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// Sanitizable is implemented by request types that support sanitization.
type Sanitizable interface {
	Sanitize()
}

// PrepareRequest sanitizes, normalizes, and validates a request.
func PrepareRequest(req any) error {
	if s, ok := req.(Sanitizable); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare decodes the body and runs PrepareRequest on it.
//
//	req, err := httputil.DecodeAndPrepare[VerifyRequest](r)
//	if err != nil {
//	    ...
//	}
func DecodeAndPrepare[T any](r *http.Request) (*T, error) {
	req, err := Decode[T](r)
	if err != nil {
		return nil, err
	}
	if err := PrepareRequest(req); err != nil {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return req, nil
}
