package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heliumchem/helium/internal/application/registry"
	"github.com/heliumchem/helium/pkg/errors"
)

// MoleculeHandler serves the molecule registry endpoints.
type MoleculeHandler struct {
	service *registry.Service
}

// NewMoleculeHandler constructs the handler.
func NewMoleculeHandler(service *registry.Service) *MoleculeHandler {
	return &MoleculeHandler{service: service}
}

// Register handles POST /api/v1/molecules.
func (h *MoleculeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registry.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeAppError(w, errors.InvalidParam("invalid request body").WithCause(err))
		return
	}

	mol, err := h.service.Register(r.Context(), input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mol)
}

// Get handles GET /api/v1/molecules/{id}.
func (h *MoleculeHandler) Get(w http.ResponseWriter, r *http.Request) {
	mol, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mol)
}

// List handles GET /api/v1/molecules.
func (h *MoleculeHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /api/v1/molecules/{id}.
func (h *MoleculeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Filter handles GET /api/v1/molecules/filter?pattern=...&limit=N, returning
// the stored molecules matching the SMARTS pattern.
func (h *MoleculeHandler) Filter(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		writeAppError(w, errors.InvalidParam("pattern query parameter is required"))
		return
	}

	result, err := h.service.Filter(r.Context(), pattern, queryInt(r, "limit", 100))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
