package board

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comandahub/comanda-backend/internal/modules/order"
	"github.com/comandahub/comanda-backend/internal/modules/permission"
)

// Handler serves the kanban board for a store's open orders.
type Handler struct{ orders order.Service }

func NewHandler(orders order.Service) *Handler { return &Handler{orders: orders} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(permission.Require(permission.ModuleDashboard, permission.ActionRead)).
		Get("/stores/{storeID}/board", h.getBoard)
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	open, err := h.orders.ListOpenOrders(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, Partition(open, time.Now()))
}

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
