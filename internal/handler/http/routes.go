package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api/groups/{groupID}", func(r chi.Router) {
		r.Post("/password", h.setPassword)
		r.Get("/password", h.passwordStatus)
		r.Delete("/password", h.removeProtection)

		r.Post("/password/verify", h.verifyPassword)
		r.Delete("/password/session", h.lockGroup)

		r.Put("/expenses/{expenseID}", h.saveExpense)
		r.Get("/expenses/{expenseID}", h.loadExpense)
	})

	router.MethodNotAllowed(CheckHTTPMethod())

	return router
}
