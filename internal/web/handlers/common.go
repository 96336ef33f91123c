package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-orchestrator/internal/orchestrator"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, message string, data any) {
	respondJSON(w, http.StatusOK, orchestrator.Success(message, data))
}

// respondFailure logs err and sends a failure envelope with the status its
// kind maps to. partial is only kept for batch failures.
func respondFailure(w http.ResponseWriter, r *http.Request, op string, err error, partial *orchestrator.BatchResult) {
	status := orchestrator.HTTPStatus(err)
	log.Printf("[api] %s %s failed (%d): %s", op, sanitizeForLog(r.URL.RawQuery), status, sanitizeForLog(err.Error()))
	respondJSON(w, status, orchestrator.Failure(err, partial))
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
