package store

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/comandahub/comanda-backend/internal/modules/permission"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	settingsRead := permission.Require(permission.ModuleSettings, permission.ActionRead)
	settingsUpdate := permission.Require(permission.ModuleSettings, permission.ActionUpdate)

	// Creating stores has no store scope, so no role is loaded and the
	// matrix check denies everyone except platform admins.
	router.With(settingsUpdate).Post("/stores", h.createStore)
	router.Get("/stores", h.listStores)
	router.Get("/stores/{storeID}", h.getStore)
	router.Get("/stores/slug/{slug}", h.getStoreBySlug)
	router.With(settingsUpdate).Put("/stores/{storeID}", h.updateStore)
	router.With(settingsUpdate).Post("/stores/{storeID}/members", h.assignRole)
	router.With(settingsRead).Get("/stores/{storeID}/members", h.listMembers)
	router.With(settingsUpdate).Delete("/stores/{storeID}/members/{userID}", h.removeMember)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.service.CreateStore(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(st)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	stores, err := h.service.ListStores(r.Context(), activeOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (h *Handler) getStoreBySlug(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStoreBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	var req UpdateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.service.UpdateStore(r.Context(), chi.URLParam(r, "storeID"), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.AssignRole(r.Context(), chi.URLParam(r, "storeID"), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(member)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveMember(r.Context(), chi.URLParam(r, "storeID"), chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
