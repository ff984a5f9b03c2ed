package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/medtransport/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	codeNotFound          = "not_found"
	codeValidation        = "validation_error"
	codeInvalidTransition = "invalid_transition"
	codeBadRequest        = "bad_request"
	codeConflict          = "conflict"
	codeInternal          = "internal_error"
)

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeServiceError maps a service error to a response. noun names what was
// looked up ("trip") and is only used for 404s.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, noun string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, noun+" not found"))
	case errors.Is(err, domain.ErrTransition):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeInvalidTransition, unwrapMessage(err, domain.ErrTransition)))
	case errors.Is(err, domain.ErrInvalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, unwrapMessage(err, domain.ErrInvalid)))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(codeInternal, "internal server error"))
	}
}

// writeRequestError reports a request rejected before reaching the service
// layer, e.g. a malformed body.
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, message))
}

// writeParamError reports a path or query parameter that failed to bind.
func writeParamError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, err.Error()))
}

// unwrapMessage extracts the human-readable part after the sentinel text.
// e.g. "service.DriverService.Rate: invalid transition or value: rating must be
// between 0 and 5, got 6" → "rating must be between 0 and 5, got 6"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
