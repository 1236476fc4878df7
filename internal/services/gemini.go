package services

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ContentGenerator sends one user message with a system instruction to the
// language model and returns its raw response.
type ContentGenerator interface {
	Generate(ctx context.Context, systemInstruction, message string) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName, endpoint string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, modelName: modelName}, nil
}

// Generate builds a fresh model per call; GenerativeModel is not safe to
// share once SystemInstruction is set.
func (g *GeminiClient) Generate(ctx context.Context, systemInstruction, message string) (*genai.GenerateContentResponse, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	return model.GenerateContent(ctx, genai.Text(message))
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// unavailableGenerator answers every call with a provider error. Used when
// the client could not be built (usually a missing API key), which the
// provider would have rejected anyway.
type unavailableGenerator struct {
	err error
}

func NewUnavailableGenerator(err error) ContentGenerator {
	return unavailableGenerator{err: err}
}

func (g unavailableGenerator) Generate(ctx context.Context, systemInstruction, message string) (*genai.GenerateContentResponse, error) {
	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, g.err)
}

// replyText returns the text of the first candidate, or "" when the
// response carries none.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok && t != "" {
			return string(t)
		}
	}
	return ""
}
