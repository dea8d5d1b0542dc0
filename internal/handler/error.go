// Package handler holds the HTTP helpers shared by the storefront handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/middleware"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// ErrorBody is the JSON shape of an error.
type ErrorBody struct {
	Code    string            `json:"code"`
	Reason  string            `json:"reason,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewErrorBody converts err into its client-facing form.
func NewErrorBody(err error) ErrorBody {
	if fields := domain.GetValidationFields(err); fields != nil {
		return ErrorBody{
			Code:    domain.EINVALID,
			Message: "Please correct the highlighted fields",
			Fields:  fields,
		}
	}
	return ErrorBody{
		Code:    domain.ErrorCode(err),
		Reason:  domain.ErrorReason(err),
		Message: domain.ErrorMessage(err),
	}
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	if domain.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return ErrorCodeToHTTPStatus(domain.ErrorCode(err))
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EPRECONDITION:
		return http.StatusUnprocessableEntity // 422
	case domain.ESATISFIED:
		return http.StatusOK
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// LogError logs err at a level matching its status and reports 5xx to Sentry.
func LogError(r *http.Request, err error, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if reason := domain.ErrorReason(err); reason != "" {
		attrs = append(attrs, "reason", reason)
	}

	if status >= 500 {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
		return
	}
	logger.Info("request rejected", attrs...)
}

// ErrorResponse writes err as JSON when the client accepts it and as plain
// text otherwise.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	LogError(r, err, status)

	body := NewErrorBody(err)
	if acceptsJSON(r) {
		JSON(w, status, map[string]ErrorBody{"error": body})
		return
	}
	http.Error(w, body.Message, status)
}

// ValidationErrorResponse writes field errors. Other errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, err)
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// UnauthorizedResponse is a convenience wrapper for 401 errors.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
}

// BadRequestResponse is a convenience wrapper for 400 errors.
func BadRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "%s", message))
}

// InternalErrorResponse logs the error and returns a generic 500 response.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(contentType, "application/json") {
		return true
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.HasSuffix(r.URL.Path, ".json") {
		return true
	}

	return false
}
