package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message    string `json:"message"`
	IsExamMode bool   `json:"isExamMode"`
}

// ChatResponse is the reply from the AI tutor. Reply carries the fallback
// text when the provider fails or answers with nothing.
type ChatResponse struct {
	Reply string `json:"reply"`
}
