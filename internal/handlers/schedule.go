package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/models"
)

type studyPlanService interface {
	List(ctx context.Context) ([]*models.StudyPlan, error)
	Create(ctx context.Context, req models.CreateStudyPlanRequest) (*models.StudyPlan, error)
}

type ScheduleHandler struct {
	plans studyPlanService
	log   *logger.Logger
}

func NewScheduleHandler(plans studyPlanService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{plans: plans, log: log}
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context())
	if err != nil {
		h.log.Error("failed to list study plans", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch schedule", r))
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudyPlanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	plan, err := h.plans.Create(r.Context(), req)
	if err != nil {
		h.log.Error("failed to save study plan", "error", err)
		handleServiceError(w, r, err, "Failed to save schedule")
		return
	}

	h.log.Debug("study plan saved", "id", plan.ID, "topic", plan.Topic)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Schedule updated"})
}
