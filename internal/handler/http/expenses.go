package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/models"
)

type expenseResponse struct {
	Details  models.ExpenseDetails `json:"details"`
	Fallback bool                  `json:"fallback"`
}

func (h *Handler) saveExpense(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")
	expenseID := chi.URLParam(r, "expenseID")

	var details models.ExpenseDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		log.Err(err).Str("func", "*Handler.saveExpense").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Password.SaveExpense(r.Context(), groupID, expenseID, details); err != nil {
		log.Err(err).Str("func", "*Handler.saveExpense").Msg("error saving expense")
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadExpense(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	groupID := chi.URLParam(r, "groupID")
	expenseID := chi.URLParam(r, "expenseID")

	got, err := h.services.Password.LoadExpense(r.Context(), groupID, expenseID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.loadExpense").Msg("error loading expense")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, expenseResponse{Details: got.Details, Fallback: got.Fallback})
}
