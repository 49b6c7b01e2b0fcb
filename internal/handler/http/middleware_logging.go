package http

import (
	"net/http"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

// withLogging emits one structured line per completed request. The response
// writer decorator supplies the status and byte count the handler produced.
// Request bodies and password material are never logged.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		logger.FromRequest(r).Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
