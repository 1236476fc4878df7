package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"

	"gate-tutor-backend/internal/logger"
)

const (
	ExamSupervisorInstruction = "You are a GATE Exam Supervisor. Provide a specific Previous Year Question (PYQ). " +
		"Evaluate the student's logic strictly. Do not give the answer. Keep it professional and high-pressure."

	SocraticTutorInstruction = "You are an expert GATE Tutor. Use Socratic pedagogy: Never give the direct answer. " +
		"Guide the student using engineering analogies and hints. Ask leading questions that make them think of the core principles."
)

const (
	// FallbackResting is returned with ErrProviderUnavailable.
	FallbackResting = "The AI is currently resting. Check your API key."
	// FallbackRephrase is returned without an error when the model replied
	// with nothing usable.
	FallbackRephrase = "I'm processing your query... let's try rephrasing."
)

var ErrProviderUnavailable = errors.New("AI provider reported an error")

func SystemInstruction(examMode bool) string {
	if examMode {
		return ExamSupervisorInstruction
	}
	return SocraticTutorInstruction
}

// TutorService relays a single student message to the model under one of
// two personas. It keeps no state between calls.
type TutorService struct {
	gen ContentGenerator
	log *logger.Logger
}

func NewTutorService(gen ContentGenerator, log *logger.Logger) *TutorService {
	return &TutorService{gen: gen, log: log}
}

// Chat returns the model's reply. The three failure shapes differ on
// purpose:
//   - provider error: FallbackResting and an error wrapping ErrProviderUnavailable
//   - empty or blocked reply: FallbackRephrase and nil
//   - transport failure: "" and the wrapped error
func (s *TutorService) Chat(ctx context.Context, message string, examMode bool) (string, error) {
	resp, err := s.gen.Generate(ctx, SystemInstruction(examMode), message)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			s.log.Warn("Gemini blocked the reply", "exam_mode", examMode, "reason", blocked.Error())
			return FallbackRephrase, nil
		}
		if errors.Is(err, ErrProviderUnavailable) {
			s.log.Error("Gemini API error", "error", err)
			return FallbackResting, err
		}
		if ae, ok := apierror.FromError(err); ok {
			s.log.Error("Gemini API error", "status", ae.HTTPCode(), "error", ae.Error())
			return FallbackResting, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		s.log.Error("Gemini request failed", "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	reply := replyText(resp)
	if reply == "" {
		s.log.Warn("Gemini returned empty text, using fallback", "exam_mode", examMode)
		return FallbackRephrase, nil
	}
	return reply, nil
}
