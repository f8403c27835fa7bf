// Package llm wraps the language model used for relevance checks, city
// detection, and structured-field extraction. The model is treated as an
// unreliable collaborator: empty or unparseable output means "no signal".
package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Model is the capability the pipeline depends on. Tests substitute a
// deterministic fake; production uses the Ollama client below.
type Model interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Ollama struct {
	llm *ollama.LLM
}

// NewOllama creates a client for a local Ollama server.
func NewOllama(serverURL string, model string) (*Ollama, error) {
	llm, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, err
	}
	return &Ollama{llm: llm}, nil
}

func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, llms.WithMaxTokens(maxTokens))
}
