// Package httputil centralizes JSON response and error writing for the thin
// HTTP layer. Domain error codes map to status codes here and nowhere else.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "waangu/pkg/domain-errors"
)

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeValidation:         http.StatusBadRequest,
	dErrors.CodeInvalidInput:       http.StatusBadRequest,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeForbidden:          http.StatusForbidden,
	dErrors.CodeTimeout:            http.StatusGatewayTimeout,
	dErrors.CodeUnavailable:        http.StatusServiceUnavailable,
	dErrors.CodeInvariantViolation: http.StatusConflict,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

// WriteJSON writes v with the given status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure detail never leaks
// to callers; everything else surfaces the message for the client.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		code = dErrors.CodeInternal
		status = http.StatusInternalServerError
	}

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, status, body)
}
