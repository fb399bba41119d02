// Package llm provides plain-HTTP clients for the text-generation
// capabilities the workflow consumes: OpenAI chat completions when an API key
// is configured, a local Ollama server otherwise.
package llm

import "context"

// Client completes a prompt under a system instruction.
type Client interface {
	Complete(ctx context.Context, system, prompt string, temperature float64) (string, error)
}

// Role selects the model tier for a client. Graders get the stricter model,
// everything else the cheaper reasoning model.
type Role string

const (
	RoleReasoning Role = "reasoning"
	RoleGrader    Role = "grader"
)

// Config carries provider settings resolved from the environment.
type Config struct {
	OpenAIKey string
	OllamaURL string
}

const (
	openAIReasoningModel = "gpt-3.5-turbo"
	openAIGraderModel    = "gpt-4"
	ollamaModel          = "mistral"
)

// New picks the provider for a role: OpenAI when a key is configured, Ollama
// as the local fallback.
func New(cfg Config, role Role) Client {
	if cfg.OpenAIKey != "" {
		model := openAIReasoningModel
		if role == RoleGrader {
			model = openAIGraderModel
		}
		return NewOpenAI(cfg.OpenAIKey, model)
	}
	return NewOllama(cfg.OllamaURL, ollamaModel)
}
