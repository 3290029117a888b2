package llm

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the retrieval-augmented prompt. The model is told to
// admit ignorance rather than invent answers when the context falls short.
func BuildPrompt(req Request) string {
	var context strings.Builder
	for _, p := range req.Passages {
		if p.Source != "" || p.Title != "" {
			context.WriteString(fmt.Sprintf("[%s] %s\n", p.Source, p.Title))
		}
		context.WriteString(p.Text)
		context.WriteString("\n\n")
	}
	if context.Len() == 0 {
		context.WriteString("(no relevant context found)\n")
	}

	var history strings.Builder
	for _, turn := range req.History {
		history.WriteString(fmt.Sprintf("User: %s\nAssistant: %s\n", turn.User, turn.Bot))
	}
	if history.Len() == 0 {
		history.WriteString("(no prior conversation)\n")
	}

	assistant := "a helpful AI assistant"
	if req.ClientName != "" {
		assistant = fmt.Sprintf("a helpful AI assistant for %s", req.ClientName)
	}

	return fmt.Sprintf(`You are %s.

Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context:
%s
Current conversation:
%s
Question: %s

Helpful Answer:`, assistant, context.String(), history.String(), req.Question)
}
