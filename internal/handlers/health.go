package handlers

import (
	"net/http"

	"gate-tutor-backend/internal/models"
)

// Health reports liveness only; it never touches the store or the model.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Message: "Backend is online"})
}
