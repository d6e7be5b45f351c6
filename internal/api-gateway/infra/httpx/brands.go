package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/app"
)

func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody)).Decode(&req); err != nil {
		WriteError(r.Context(), w, NewError("invalid_json", err.Error(), http.StatusBadRequest))
		return
	}

	b, err := h.brands.CreateBrand(r.Context(), app.BrandInput{
		Name:         req.Name,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapBrand(b))
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brands.ListBrands(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	out := make([]BrandResponse, len(brands))
	for i := range brands {
		out[i] = mapBrand(&brands[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := h.brands.GetBrand(r.Context(), chi.URLParam(r, "brandID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBrand(b))
}
