package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/petnfc-api/internal/application/scan"
	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/transport/http/middleware"
)

const maxHistoryLimit = 200

// PetHandler serves the public tag endpoints and the admin scan history.
type PetHandler struct {
	svc scan.Service
}

func NewPetHandler(svc scan.Service) *PetHandler { return &PetHandler{svc: svc} }

// Check tells a scanning client whether the tag belongs to someone.
func (h *PetHandler) Check(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Check(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PetHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req domain.ScanRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Scan(r.Context(), chi.URLParam(r, "id"), req, scan.Meta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *PetHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	records, next, err := h.svc.History(r.Context(), limit, q.Get("cursor"))
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope[domain.ScanRecord]{Data: records, NextCursor: next})
}
