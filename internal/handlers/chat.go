package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/models"
	"gate-tutor-backend/internal/services"
)

type tutor interface {
	Chat(ctx context.Context, message string, examMode bool) (string, error)
}

type ChatHandler struct {
	tutor tutor
	log   *logger.Logger
}

func NewChatHandler(tutor tutor, log *logger.Logger) *ChatHandler {
	return &ChatHandler{tutor: tutor, log: log}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	reply, err := h.tutor.Chat(r.Context(), req.Message, req.IsExamMode)
	switch {
	case errors.Is(err, services.ErrProviderUnavailable):
		// The client renders reply as-is, so the fallback goes in the reply field.
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{Reply: reply})
	case err != nil:
		h.log.Error("chat relay failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Backend AI Engine error", r))
	default:
		writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
	}
}
