package llm

import "context"

// TextProvider is a single text-completion backend. Implementations own
// their transport, timeout and per-call retry; callers only see the final
// completion or the final error.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result pairs a completion with the name of the backend that produced it.
type Result struct {
	Text     string
	Provider string
}

// Factory builds an adapter for one backend. An empty apiKey means
// "use process configuration"; a non-empty key builds a transient adapter
// for a single call. Construction fails fast when no credential is found.
type Factory func(apiKey string) (TextProvider, error)
