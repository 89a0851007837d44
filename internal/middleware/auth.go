// Package middleware provides HTTP middleware shared across route groups.
package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mwhite-io/docsearch/pkg/handlers"
)

// ErrUnauthorized is returned when a request fails the API key check.
var ErrUnauthorized = errors.New("invalid or missing API key")

// APIKey gates requests behind a shared key supplied in the X-API-Key or Key
// header, or the key query parameter. An empty configured key disables the
// gate entirely.
func APIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				provided = r.Header.Get("Key")
			}
			if provided == "" {
				provided = r.URL.Query().Get("key")
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger records method, path, and status for each request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
