package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/internal/service"
)

type passwordRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

type statusResponse struct {
	Protected bool `json:"protected"`
	Unlocked  bool `json:"unlocked"`
}

func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")

	var body passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Str("func", "*Handler.setPassword").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Password.SetGroupPassword(r.Context(), groupID, body.Password); err != nil {
		log.Err(err).Str("func", "*Handler.setPassword").Msg("error setting group password")
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) verifyPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")

	var body passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Str("func", "*Handler.verifyPassword").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	ok, err := h.services.Password.VerifyGroupPassword(r.Context(), groupID, body.Password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.verifyPassword").Msg("error verifying group password")
		h.writeError(w, err)
		return
	}
	if !ok {
		h.writeError(w, service.ErrWrongPassword)
		return
	}

	h.writeJSON(w, http.StatusOK, verifyResponse{Valid: true})
}

func (h *Handler) passwordStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")

	protected, err := h.services.Password.IsGroupProtected(r.Context(), groupID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.passwordStatus").Msg("error checking group protection")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		Protected: protected,
		Unlocked:  h.services.Password.HasActivePassword(groupID),
	})
}

func (h *Handler) lockGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	h.services.Password.ClearGroupPassword(groupID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeProtection(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")

	if err := h.services.Password.RemoveGroupProtection(r.Context(), groupID); err != nil {
		log.Err(err).Str("func", "*Handler.removeProtection").Msg("error removing group protection")
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
