// Package handlers contains the HTTP handlers for the helium API.
package handlers

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/heliumchem/helium/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps application errors to HTTP status codes.  Codes outside
// the known set are masked as 500 so infrastructure details never leak.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	var status int
	switch code {
	case errors.CodeInvalidParam, errors.CodeInvalidSMILES, errors.CodeInvalidSMARTS:
		status = http.StatusBadRequest
	case errors.CodeNotFound, errors.CodeMoleculeNotFound:
		status = http.StatusNotFound
	case errors.CodeConflict, errors.CodeMoleculeExists:
		status = http.StatusConflict
	case errors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    errors.CodeInternal.String(),
			Message: "internal server error",
		})
		return
	}

	resp := ErrorResponse{Code: code.String(), Message: err.Error()}
	var ae *errors.AppError
	if goerrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(w, status, resp)
}

// queryInt reads an integer query parameter, returning def when absent or
// malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
