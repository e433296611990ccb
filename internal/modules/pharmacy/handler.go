package pharmacy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes pharmacy HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the pharmacy routes. staffOnly guards the admin-write
// endpoints.
func (h *Handler) RegisterRoutes(r *chi.Mux, staffOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/pharmacies", func(r chi.Router) {
		r.Get("/", h.listPharmacies)
		r.Get("/nearby", h.nearby)
		r.Get("/{id}", h.getPharmacy)
		r.Get("/{id}/inventory", h.listInventory)
		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Post("/", h.createPharmacy)
			r.Put("/{id}", h.updatePharmacy)
			r.Put("/{id}/inventory", h.upsertInventory)
		})
	})
}

func (h *Handler) listPharmacies(w http.ResponseWriter, r *http.Request) {
	pharmacies, err := h.service.ListPharmacies(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if pharmacies == nil {
		pharmacies = []*Pharmacy{}
	}
	respond(w, http.StatusOK, pharmacies)
}

func (h *Handler) getPharmacy(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	p, err := h.service.GetPharmacy(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": "pharmacy not found"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request) {
	pincode := r.URL.Query().Get("pincode")
	city := r.URL.Query().Get("city")
	if pincode == "" && city == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "pincode or city is required"})
		return
	}
	pharmacies, err := h.service.Nearby(r.Context(), pincode, city)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if pharmacies == nil {
		pharmacies = []*Pharmacy{}
	}
	respond(w, http.StatusOK, pharmacies)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	items, err := h.service.ListInventory(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	if items == nil {
		items = []*PharmacyInventory{}
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) createPharmacy(w http.ResponseWriter, r *http.Request) {
	var req CreatePharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreatePharmacy(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) updatePharmacy(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req CreatePharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdatePharmacy(r.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) upsertInventory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req UpsertInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	inv, err := h.service.UpsertInventory(r.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, inv)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
