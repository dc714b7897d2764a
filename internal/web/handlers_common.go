package web

// This file contains shared utilities and helper functions used across handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxJSONOverhead is added to the paste limit when bounding request bodies,
// leaving room for JSON quoting and the target object.
const maxJSONOverhead = 64 << 10

// maxErrorMessageLen bounds messages echoed to clients.
const maxErrorMessageLen = 200

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// parsePostID reads the {postID} URL parameter.
func parsePostID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "postID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid request: post id %q", raw)
	}
	return id, nil
}

// decodeJSON decodes a bounded request body into dst. A body over limit
// yields tooLarge. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, tooLarge error, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", tooLarge, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errors.New("invalid request: empty body")
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response for failures that happen before
// a handler runs (rate limiting, malformed input). Handlers with an error
// value use respondError instead.
func writeError(w http.ResponseWriter, status int, code, message string) {
	safe := sanitizeErrorMessage(message)
	writeJSON(w, status, ErrorResponse{
		Error:   safe,
		Message: safe,
		Code:    code,
	})
}

// sanitizeErrorMessage trims a message to one short line so internal
// details such as SQL or stack traces never reach clients.
func sanitizeErrorMessage(message string) string {
	if i := strings.IndexAny(message, "\r\n"); i >= 0 {
		message = message[:i]
	}
	message = strings.TrimSpace(message)
	if len(message) > maxErrorMessageLen {
		message = message[:maxErrorMessageLen] + "..."
	}
	if message == "" {
		return "request failed"
	}
	return message
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
