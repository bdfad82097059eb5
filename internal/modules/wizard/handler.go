package wizard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/comandahub/comanda-backend/internal/modules/customer"
	"github.com/comandahub/comanda-backend/internal/modules/permission"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stores/{storeID}/wizard", func(r chi.Router) {
		r.Use(permission.Require(permission.ModuleOrders, permission.ActionCreate))
		r.Post("/", h.start)
		r.Get("/", h.resume)
		r.With(permission.Require(permission.ModuleOrders, permission.ActionUpdate)).
			Post("/edit/{orderID}", h.beginEdit)
		r.Post("/customer", h.selectCustomer)
		r.Post("/customer/register", h.quickRegister)
		r.Post("/delivery", h.setDelivery)
		r.Post("/items", h.addItem)
		r.Delete("/items/{index}", h.removeItem)
		r.Post("/back", h.back)
		r.Post("/submit", h.submit)
		r.Delete("/", h.cancel)
	})
}

// scope pulls the store id from the URL and the acting user from the request
// context set by the auth middleware.
func scope(r *http.Request) (storeID, userID uuid.UUID, err error) {
	storeID, err = uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid store id")
	}
	pc, ok := permission.FromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, errors.New("missing authentication context")
	}
	return storeID, pc.UserID, nil
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.StartOrResume(r.Context(), storeID, userID)
	if err != nil {
		respond(w, http.StatusInternalServerError, errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	h.start(w, r)
}

func (h *Handler) beginEdit(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.BeginEdit(r.Context(), storeID, userID, chi.URLParam(r, "orderID"))
	if err != nil {
		respond(w, http.StatusNotFound, errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) selectCustomer(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	var req SelectCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.SelectCustomer(r.Context(), storeID, userID, req)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) quickRegister(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	var req customer.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.QuickRegister(r.Context(), storeID, userID, req)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) setDelivery(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	var req DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.SetDelivery(r.Context(), storeID, userID, req)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.AddItem(r.Context(), storeID, userID, req)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(errors.New("invalid item index")))
		return
	}
	d, err := h.service.RemoveItem(r.Context(), storeID, userID, index)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	d, err := h.service.Back(r.Context(), storeID, userID)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	o, err := h.service.Submit(r.Context(), storeID, userID, req)
	if err != nil {
		respond(w, statusFor(err), errBody(err))
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	storeID, userID, err := scope(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errBody(err))
		return
	}
	if err := h.service.Cancel(r.Context(), storeID, userID); err != nil {
		respond(w, http.StatusInternalServerError, errBody(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoDraft):
		return http.StatusConflict
	case errors.Is(err, ErrCustomerNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func errBody(err error) map[string]string { return map[string]string{"error": err.Error()} }

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
