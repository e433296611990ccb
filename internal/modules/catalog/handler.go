package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the catalog routes. staffOnly guards the admin-write
// endpoints.
func (h *Handler) RegisterRoutes(r *chi.Mux, staffOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/medicines", func(r chi.Router) {
		r.Get("/", h.listMedicines)
		r.Get("/search", h.searchMedicines)
		r.Get("/suggestions", h.suggestions)
		r.Get("/{id}", h.getMedicine)
		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Post("/", h.createMedicine)
			r.Put("/{id}", h.updateMedicine)
			r.Post("/{id}/aliases", h.addAlias)
		})
	})
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.With(staffOnly).Post("/", h.createCategory)
	})
	r.Route("/api/v1/manufacturers", func(r chi.Router) {
		r.Get("/", h.listManufacturers)
		r.With(staffOnly).Post("/", h.createManufacturer)
	})
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := MedicineFilter{
		CategoryID:       queryInt64(q.Get("category_id")),
		ManufacturerID:   queryInt64(q.Get("manufacturer_id")),
		Form:             MedicineForm(strings.ToUpper(q.Get("form"))),
		PrescriptionType: PrescriptionType(strings.ToUpper(q.Get("prescription_type"))),
		Search:           q.Get("search"),
		OrderBy:          q.Get("ordering"),
		Limit:            int(queryInt64(q.Get("limit"))),
		Offset:           int(queryInt64(q.Get("offset"))),
	}
	if v := q.Get("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		filter.InStock = &inStock
	}
	medicines, err := h.service.ListMedicines(r.Context(), filter)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if medicines == nil {
		medicines = []*Medicine{}
	}
	respond(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id := queryInt64(chi.URLParam(r, "id"))
	m, err := h.service.GetMedicine(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": "medicine not found"})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "search query is required"})
		return
	}
	pharmacyID := queryInt64(r.URL.Query().Get("pharmacy_id"))
	limit := int(queryInt64(r.URL.Query().Get("limit")))
	results, err := h.service.Search(r.Context(), q, pharmacyID, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, results)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	symptom := strings.TrimSpace(r.URL.Query().Get("symptom"))
	if symptom == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "symptom parameter is required"})
		return
	}
	limit := int(queryInt64(r.URL.Query().Get("limit")))
	medicines, err := h.service.Suggest(r.Context(), symptom, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateMedicine(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id := queryInt64(chi.URLParam(r, "id"))
	var req CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.UpdateMedicine(r.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) addAlias(w http.ResponseWriter, r *http.Request) {
	id := queryInt64(chi.URLParam(r, "id"))
	var req AddAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.AddAlias(r.Context(), id, req.Alias); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]string{"status": "alias added"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if categories == nil {
		categories = []*Category{}
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := h.service.ListManufacturers(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if manufacturers == nil {
		manufacturers = []*Manufacturer{}
	}
	respond(w, http.StatusOK, manufacturers)
}

func (h *Handler) createManufacturer(w http.ResponseWriter, r *http.Request) {
	var req CreateManufacturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateManufacturer(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, m)
}

func queryInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
