package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate-tutor-backend/internal/logger"
)

type capturedRequest struct {
	Path     string
	Key      string
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
}

// fakeGeminiServer answers every generateContent call with status and body
// and records the decoded requests.
type fakeGeminiServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

func newFakeGeminiServer(t *testing.T, status int, body string) *fakeGeminiServer {
	t.Helper()
	f := &fakeGeminiServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		var req capturedRequest
		_ = json.Unmarshal(raw, &req)
		req.Path = r.URL.Path
		req.Key = r.URL.Query().Get("key")
		if req.Key == "" {
			req.Key = r.Header.Get("x-goog-api-key")
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGeminiServer) last(t *testing.T) capturedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the Gemini endpoint")
	return f.requests[len(f.requests)-1]
}

func newTutorAgainst(t *testing.T, endpoint string) *TutorService {
	t.Helper()
	client, err := NewGeminiClient(context.Background(), "test-key", "gemini-1.5-flash", endpoint)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewTutorService(client, logger.Nop())
}

func TestGeminiClient_SendsPersonaAndMessage(t *testing.T) {
	srv := newFakeGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"What does the recurrence look like?"}]}}]}`)
	tutor := newTutorAgainst(t, srv.URL)

	tests := []struct {
		name     string
		examMode bool
		want     string
	}{
		{"exam mode", true, ExamSupervisorInstruction},
		{"socratic mode", false, SocraticTutorInstruction},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply, err := tutor.Chat(context.Background(), "Explain merge sort", tc.examMode)
			require.NoError(t, err)
			assert.Equal(t, "What does the recurrence look like?", reply)

			req := srv.last(t)
			assert.True(t, strings.HasSuffix(req.Path, "gemini-1.5-flash:generateContent"), req.Path)
			assert.Equal(t, "test-key", req.Key)
			require.NotEmpty(t, req.SystemInstruction.Parts)
			assert.Equal(t, tc.want, req.SystemInstruction.Parts[0].Text)
			require.NotEmpty(t, req.Contents)
			require.NotEmpty(t, req.Contents[0].Parts)
			assert.Equal(t, "Explain merge sort", req.Contents[0].Parts[0].Text)
		})
	}
}

func TestGeminiClient_ProviderErrorReturnsRestingFallback(t *testing.T) {
	srv := newFakeGeminiServer(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"x","status":"INVALID_ARGUMENT"}}`)
	tutor := newTutorAgainst(t, srv.URL)

	reply, err := tutor.Chat(context.Background(), "hi", false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, FallbackResting, reply)
}

func TestGeminiClient_EmptyResponseReturnsRephraseFallback(t *testing.T) {
	srv := newFakeGeminiServer(t, http.StatusOK, `{}`)
	tutor := newTutorAgainst(t, srv.URL)

	reply, err := tutor.Chat(context.Background(), "hi", true)

	require.NoError(t, err)
	assert.Equal(t, FallbackRephrase, reply)
}

func TestGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-1.5-flash", "")
	assert.Error(t, err)
}
