package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomers(customers))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(*c))
}

// ListCustomerOrders returns the orders placed by the customer in the path.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.customers.ListCustomerOrders(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}
