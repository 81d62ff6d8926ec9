package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMessage(t *testing.T) {
	req := PipeRequest{UserMessage: "直接消息"}
	assert.Equal(t, "直接消息", req.ResolveMessage())

	req = PipeRequest{
		Messages: []Message{
			{Role: "user", Content: "第一条"},
			{Role: "assistant", Content: "回复"},
			{Role: "user", Content: "第二条"},
		},
	}
	assert.Equal(t, "第二条", req.ResolveMessage())

	req = PipeRequest{Messages: []Message{{Role: "assistant", Content: "回复"}}}
	assert.Equal(t, "", req.ResolveMessage())
}

func TestFormat(t *testing.T) {
	req := PipeRequest{}
	assert.Equal(t, "markdown", req.Format())

	req = PipeRequest{Options: map[string]interface{}{"format": "html"}}
	assert.Equal(t, "html", req.Format())

	req = PipeRequest{Options: map[string]interface{}{"format": 42}}
	assert.Equal(t, "markdown", req.Format())
}
