package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/petnfc-api/internal/application/geo"
	"github.com/petnfc-api/internal/domain"
)

// GeoHandler serves the country, state and city reference data.
type GeoHandler struct {
	svc geo.Service
}

func NewGeoHandler(svc geo.Service) *GeoHandler { return &GeoHandler{svc: svc} }

func (h *GeoHandler) Countries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Countries())
}

func (h *GeoHandler) Country(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.svc.Country)
}

func (h *GeoHandler) SearchCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SearchCountries(chi.URLParam(r, "name")))
}

func (h *GeoHandler) CountryStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CountryStates(code(r)))
}

func (h *GeoHandler) CountryCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CountryCities(code(r)))
}

func (h *GeoHandler) States(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.States())
}

func (h *GeoHandler) State(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.svc.State)
}

func (h *GeoHandler) SearchStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SearchStates(chi.URLParam(r, "name")))
}

func (h *GeoHandler) StateCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.StateCities(code(r)))
}

func (h *GeoHandler) Cities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Cities())
}

func (h *GeoHandler) City(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.svc.City)
}

func (h *GeoHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SearchCities(chi.URLParam(r, "name")))
}

func (h *GeoHandler) byID(w http.ResponseWriter, r *http.Request, get func(int) (domain.Place, error)) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	p, err := get(id)
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Parent codes are stored upper-case in the datasets.
func code(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}
