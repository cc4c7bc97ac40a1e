package rag

import (
	"fmt"
	"strings"
)

// systemPrompt instructs the model to stay grounded in the retrieved
// contexts instead of answering from its own knowledge.
const systemPrompt = `You are a helpful movie assistant. Answer the question using only the
numbered context passages below the question. Cite passages by their number,
like [1]. If the context does not contain the answer, say you don't know.`

// BuildPrompt renders the user prompt: numbered context blocks followed by
// the question.
func BuildPrompt(question string, contexts []Context) string {
	var b strings.Builder
	if len(contexts) > 0 {
		b.WriteString("Context:\n")
		for i, c := range contexts {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(c.Content))
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
