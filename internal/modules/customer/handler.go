package customer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes customer profile HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/{phone}", h.getProfile)
		r.Post("/{phone}", h.upsertProfile)
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	c, err := h.service.GetProfile(r.Context(), phone)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": "customer not found"})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpsertProfile(r.Context(), phone, req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
