package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
)

type apiError struct {
	Error string `json:"error"`
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// renderError maps the failure taxonomy onto HTTP statuses. Unknown errors
// collapse to a generic 500 so internals never leak to the caller.
func renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		renderJSON(w, http.StatusUnauthorized, apiError{Error: "Unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		renderJSON(w, http.StatusForbidden, apiError{Error: "Forbidden"})
	case errors.Is(err, common.ErrInvalidArgument):
		renderJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
	case errors.Is(err, common.ErrFileUnavailable):
		renderJSON(w, http.StatusNotFound, apiError{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		renderJSON(w, http.StatusNotFound, apiError{Error: "not found"})
	default:
		renderJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrInvalidArgument
	}
	return nil
}
