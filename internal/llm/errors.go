package llm

import "fmt"

// ProviderError is returned by an adapter once its attempt budget against a
// single backend is exhausted. Err carries the last underlying cause.
type ProviderError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed after %d attempts: %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AllProvidersFailedError is terminal: every configured provider was tried
// in order and every one of them failed.
type AllProvidersFailedError struct {
	Last error
}

func (e *AllProvidersFailedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("all text providers failed: %v", e.Last)
	}
	return "all text providers failed"
}

func (e *AllProvidersFailedError) Unwrap() error { return e.Last }

// NoProvidersAvailableError is terminal: the manager has zero configured
// providers, so no network call was ever made.
type NoProvidersAvailableError struct{}

func (e *NoProvidersAvailableError) Error() string {
	return "no text providers available"
}

// MalformedResponseError means structured-output recovery gave up: neither
// the original completion nor the single regeneration decoded as JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
