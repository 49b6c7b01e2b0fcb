package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/sora-grayscale/spliit-sub000/internal/ratelimit"
	"github.com/sora-grayscale/spliit-sub000/internal/service"
	"github.com/sora-grayscale/spliit-sub000/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrWrongPassword:       http.StatusUnauthorized,
	service.ErrSessionExpired:      http.StatusUnauthorized,
	service.ErrGroupNotProtected:   http.StatusNotFound,

	store.ErrNotFound:            http.StatusNotFound,
	store.ErrIterationsDowngrade: http.StatusConflict,

	ratelimit.ErrRateLimitExceeded: http.StatusTooManyRequests,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err onto a status code and a small JSON error body.
// Rate-limit rejections additionally carry a Retry-After header so clients
// can back off instead of polling.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	var blocked *ratelimit.BlockedError
	if errors.As(err, &blocked) {
		seconds := int(math.Ceil(blocked.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
