package permission

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.With(Require(ModuleSettings, ActionRead)).
		Get("/stores/{storeID}/roles", h.listRoles)
	router.Get("/roles/{id}", h.getRole)
	router.Put("/roles/{id}", h.updateRole)
	// Create and delete are not supported operations; registering them keeps
	// the API surface explicit about that instead of answering 404.
	router.Post("/stores/{storeID}/roles", h.unsupported)
	router.Delete("/roles/{id}", h.unsupported)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	roles, err := h.service.ListRoles(r.Context(), storeID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roles)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	role, err := h.service.UpdateRole(r.Context(), id, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(role)
}

func (h *Handler) unsupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, ErrRoleMutationUnsupported.Error(), http.StatusMethodNotAllowed)
}
