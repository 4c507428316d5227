// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/period"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
	ErrBadRequest = errors.New("malformed request")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.As(err, &validationErrs):
		ValidationProblem(w, validationErrs)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, calendar.ErrInvalidDate):
		Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
	case errors.Is(err, calendar.ErrUnsupportedCalendarSystem):
		Problem(w, http.StatusBadRequest, "Unsupported Calendar", err.Error())
	case errors.Is(err, period.ErrInvalidInput):
		Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// IsClientError reports whether RespondError maps err to a 4xx status.
func IsClientError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.As(err, &validationErrs) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, calendar.ErrInvalidDate) ||
		errors.Is(err, calendar.ErrUnsupportedCalendarSystem) ||
		errors.Is(err, period.ErrInvalidInput)
}
