package llm

import (
	"context"

	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

// GenerateStructured asks the manager for a completion and decodes it into
// out. A completion that does not survive extraction triggers exactly one
// regeneration (a fresh completion, not a re-parse of the same text); a
// second parse failure is terminal and surfaces as *MalformedResponseError.
// The returned string names the provider whose completion was accepted.
func GenerateStructured(ctx context.Context, log *logger.Logger, m *Manager, prompt string, overrides map[string]string, out any) (string, error) {
	res, err := m.Generate(ctx, prompt, overrides)
	if err != nil {
		return "", err
	}
	perr := ExtractJSON(res.Text, out)
	if perr == nil {
		return res.Provider, nil
	}
	log.Warn("Model output unparsable, regenerating once", "provider", res.Provider, "error", perr.Error())

	res, err = m.Generate(ctx, prompt, overrides)
	if err != nil {
		return "", err
	}
	if perr = ExtractJSON(res.Text, out); perr != nil {
		observability.Current().IncParseExhausted()
		return "", &MalformedResponseError{Err: perr}
	}
	observability.Current().IncParseRecovered()
	return res.Provider, nil
}

// GenerateStringsBestEffort is the tolerant variant used for non-critical
// output: generation failures still surface, but a completion that fails to
// parse as a string array degrades to an empty list instead of an error.
func GenerateStringsBestEffort(ctx context.Context, log *logger.Logger, m *Manager, prompt string, overrides map[string]string) ([]string, string, error) {
	res, err := m.Generate(ctx, prompt, overrides)
	if err != nil {
		return nil, "", err
	}
	var vals []string
	if perr := ExtractJSON(res.Text, &vals); perr != nil {
		log.Warn("Best-effort output unparsable, returning empty list",
			"provider", res.Provider, "error", perr.Error())
		return []string{}, res.Provider, nil
	}
	return vals, res.Provider, nil
}
