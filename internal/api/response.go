package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// envelope is the response shape for operations that report success or
// failure rather than returning data.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonOK writes a 200 success envelope.
func jsonOK(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, envelope{Success: true, Message: message})
}

// jsonFail writes a failure envelope with HTTP 200. Validation, conflict,
// and credential failures use this shape so browser clients read a single
// response format; only auth, lookup, and server errors get error statuses.
func jsonFail(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, envelope{Success: false, Message: message})
}

// jsonError writes a failure envelope with the given error status.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{Success: false, Message: message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
