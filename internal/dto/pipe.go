package dto

import "strings"

// Message is one turn of the surrounding conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PipeRequest mirrors the inbound shape of a chat pipeline call: only the
// free-text user message is interpreted, the rest is routing metadata.
type PipeRequest struct {
	UserMessage string                 `json:"user_message"`
	ModelID     string                 `json:"model_id"`
	Messages    []Message              `json:"messages"`
	Options     map[string]interface{} `json:"options"`
}

// ResolveMessage returns the message to interpret: the explicit user_message
// field, falling back to the latest user turn of the conversation.
func (r *PipeRequest) ResolveMessage() string {
	if strings.TrimSpace(r.UserMessage) != "" {
		return r.UserMessage
	}
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" && strings.TrimSpace(r.Messages[i].Content) != "" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// Format returns the requested output format from the options bag,
// defaulting to markdown.
func (r *PipeRequest) Format() string {
	if f, ok := r.Options["format"].(string); ok && f != "" {
		return f
	}
	return "markdown"
}

type PipeResponse struct {
	ID      string `json:"id"`
	ModelID string `json:"model_id,omitempty"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// StreamEvent is one SSE payload of the streaming endpoint.
type StreamEvent struct {
	Content string `json:"content"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}
