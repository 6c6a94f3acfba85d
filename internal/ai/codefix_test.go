package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
)

func TestBuildCodeFixPrompt(t *testing.T) {
	req := domain.NewRequest()
	req.Method = "POST"
	req.URL = "https://api.example.com/users"
	req.Body = `{"name":"ada"}`

	resp := domain.NewResponse(req.ID, 422, "Unprocessable Entity", nil, "", 12)

	prompt := buildCodeFixPrompt(CodeFixArgs{
		Request:     &req,
		Response:    &resp,
		Code:        `fetch("/users")`,
		Instruction: "send the name field as JSON",
	})

	assert.Contains(t, prompt, "POST https://api.example.com/users")
	assert.Contains(t, prompt, "Status: 422 Unprocessable Entity")
	assert.Contains(t, prompt, `fetch("/users")`)
	assert.Contains(t, prompt, "Instruction: send the name field as JSON")
}

func TestBuildCodeFixPromptInstructionOnly(t *testing.T) {
	prompt := buildCodeFixPrompt(CodeFixArgs{Instruction: "add retry logic"})

	assert.NotContains(t, prompt, "Request:")
	assert.NotContains(t, prompt, "Response:")
	assert.Contains(t, prompt, "Instruction: add retry logic")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced diff unwrapped",
			in:   "```diff\n--- a/x\n+++ b/x\n```",
			want: "--- a/x\n+++ b/x",
		},
		{
			name: "plain text untouched",
			in:   "=== FILE: a.go\npackage a\n=== END",
			want: "=== FILE: a.go\npackage a\n=== END",
		},
		{
			name: "unterminated fence untouched",
			in:   "```\npartial output",
			want: "```\npartial output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
