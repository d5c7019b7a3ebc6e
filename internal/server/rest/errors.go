package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
)

const msgInternal = "internal server error"

// HTTPError is an error with the status and message sent to the client.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.cause }

func newHTTPError(code int, msg string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: code, Message: msg}
}

func errBadRequest(msg string, cause error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, msg, cause)
}

func errNotFound(msg string) *HTTPError {
	return newHTTPError(http.StatusNotFound, msg, nil)
}

func errUnauthorized(msg string, cause error) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, msg, cause)
}

// appHandler is a handler that reports failures by returning them.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// makeHandler writes the JSON error body for whatever h returns. Server
// errors are logged with their cause; the client only sees msgInternal.
func (s *Server) makeHandler(h appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
		} else {
			s.logger.Debug(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
		}
		writeError(w, code, msg)
	}
}

// statusFor maps an error returned by a service or handler to a status
// code and a public message.
func statusFor(err error) (int, string) {
	var (
		httpErr    *HTTPError
		validation *common.ValidationError
		notFound   *common.NotFoundError
		tooLarge   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "File is too large"
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, validation.Message
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Message
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrAnalysisDisabled):
		return http.StatusServiceUnavailable, "Analysis service is not configured"
	case errors.Is(err, common.ErrAnalysisUnavailable):
		return http.StatusBadGateway, "Analysis service unavailable"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
