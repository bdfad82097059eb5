package postal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct{ client *Client }

func NewHandler(client *Client) *Handler { return &Handler{client: client} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/postal/{code}", h.lookup)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	a, err := h.client.Lookup(r.Context(), chi.URLParam(r, "code"))
	switch {
	case errors.Is(err, ErrInvalidCEP):
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case err != nil:
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusOK, a)
	}
}

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
