package request

import (
	"net/http"
)

// BodyLimit caps request bodies at maxBytes. Certificates arrive base64-encoded
// inside the JSON body, so the limit bounds the PDF size as well.
// Reads past the limit fail with *http.MaxBytesError.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
