package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const codeFence = "```"

// StripCodeFences removes markdown code-fence wrapping that models are prone
// to emit around JSON payloads, in two stages:
//
//  1. A payload that opens with a fence (bare or json-tagged) has that fence
//     and a trailing fence removed. An unterminated opening fence is fine.
//  2. A payload that merely contains fences somewhere (prose before the
//     block, commentary after) is split on the fence delimiter and the first
//     enclosed segment is taken, dropping a leading json tag.
//
// Already-clean text passes through untouched.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, codeFence) {
		rest := strings.TrimPrefix(s, codeFence)
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimSpace(rest)
		rest = strings.TrimSuffix(rest, codeFence)
		return strings.TrimSpace(rest)
	}
	if strings.Contains(s, codeFence) {
		parts := strings.Split(s, codeFence)
		seg := strings.TrimPrefix(parts[1], "json")
		return strings.TrimSpace(seg)
	}
	return s
}

// ExtractJSON strips incidental formatting from a raw completion and decodes
// it strictly into out. No lenient or partial parsing: anything the decoder
// rejects is a parse failure for the caller to recover from.
func ExtractJSON(raw string, out any) error {
	cleaned := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}
