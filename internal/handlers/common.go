package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON error body shared by API endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, errorResponse{Status: "error", Message: message})
}
