// Package httpx provides the JSON response utilities used by the manager
// API stub.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends the error envelope the console's resource client understands.
func Fail(w http.ResponseWriter, status int, reason string) {
	JSON(w, status, map[string]any{"success": false, "error": reason})
}

// OK sends a success envelope.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]any{"success": true})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
