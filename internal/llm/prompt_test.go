package llm_test

import (
	"strings"
	"testing"

	"github.com/Ozeirr/ai-chatbot-platform/internal/llm"
)

func TestBuildPrompt(t *testing.T) {
	req := llm.Request{
		Question:   "What are your opening hours?",
		ClientName: "Acme Corp",
		Passages: []llm.Passage{
			{Source: "https://acme.example/hours", Title: "Opening Hours", Text: "We are open 9-5 on weekdays."},
		},
		History: []llm.Turn{
			{User: "Hi", Bot: "Hello! How can I help?"},
		},
	}

	prompt := llm.BuildPrompt(req)

	mustContain := []string{
		"helpful AI assistant for Acme Corp",
		"What are your opening hours?",
		"We are open 9-5 on weekdays.",
		"User: Hi",
		"Assistant: Hello! How can I help?",
		"don't try to make up an answer",
	}

	for _, s := range mustContain {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt should contain %q", s)
		}
	}
}

func TestBuildPrompt_NoContext(t *testing.T) {
	req := llm.Request{
		Question:   "Anything?",
		ClientName: "Acme Corp",
	}

	prompt := llm.BuildPrompt(req)

	if !strings.Contains(prompt, "(no relevant context found)") {
		t.Error("prompt should mark missing context")
	}
	if !strings.Contains(prompt, "(no prior conversation)") {
		t.Error("prompt should mark empty history")
	}
}

func TestBuildPrompt_NoClientName(t *testing.T) {
	prompt := llm.BuildPrompt(llm.Request{Question: "Hello?"})

	if !strings.Contains(prompt, "You are a helpful AI assistant.") {
		t.Errorf("prompt should use the generic assistant persona, got:\n%s", prompt)
	}
}
