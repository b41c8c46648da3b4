package driven

import "context"

// CompletionService produces a prose answer from an assembled prompt.
// This is an optional service: when nil, queries still return retrieved
// chunks but no generated answer.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Ollama (local models)
type CompletionService interface {
	// Complete generates text from the given prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
