package main

import (
	"encoding/json"
	"net/http"

	"github.com/previdsoft/procsync/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Message: message})
}

// readJSON decodes a request body. Unknown fields are tolerated: scraper
// versions in the field send extra keys alongside the contract ones.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	return json.NewDecoder(r.Body).Decode(data)
}
