package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to a user-friendly message and code
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered as JSON, or as an alert fragment for HTMX

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/postdesk/internal/core"
	"github.com/JonMunkholm/postdesk/internal/logging"
	"github.com/JonMunkholm/postdesk/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Action    string `json:"action,omitempty"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor picks the HTTP status for an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrPostNotFound), errors.Is(err, core.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrPasteTooLarge), errors.Is(err, core.ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrEmptyPaste),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrUnknownFormat),
		errors.Is(err, core.ErrInvalidColumn):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyPastes):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case core.MapError(err).Code == "REQ003":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and returns the mapped
// user message in the format the client asked for.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	requestID := middleware.GetReqID(r.Context())

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if errors.Is(err, core.ErrTooManyPastes) {
		w.Header().Set("Retry-After", "1")
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, status)
		return
	}

	writeJSON(w, status, ErrorResponse{
		Error:     userMsg.Message,
		Message:   userMsg.Message,
		Action:    userMsg.Action,
		Code:      userMsg.Code,
		RequestID: requestID,
	})
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error partial", "error", err)
	}
}
