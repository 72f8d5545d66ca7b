package handlers

import (
	"encoding/json"
	"net/http"

	appsearch "github.com/heliumchem/helium/internal/application/search"
	"github.com/heliumchem/helium/pkg/errors"
)

// SearchHandler serves substructure search requests.
type SearchHandler struct {
	service *appsearch.Service
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(service *appsearch.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequest is the POST /api/v1/search payload.  Unique defaults to true
// when omitted.
type searchRequest struct {
	Pattern string         `json:"pattern"`
	Target  string         `json:"target"`
	Mode    appsearch.Mode `json:"mode,omitempty"`
	Unique  *bool          `json:"unique,omitempty"`
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.InvalidParam("invalid request body").WithCause(err))
		return
	}

	unique := true
	if req.Unique != nil {
		unique = *req.Unique
	}

	result, err := h.service.Run(r.Context(), appsearch.Request{
		Pattern: req.Pattern,
		Target:  req.Target,
		Mode:    req.Mode,
		Unique:  unique,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
