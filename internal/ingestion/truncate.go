package ingestion

import "unicode/utf8"

// MaxSourceTextLength bounds how much of a document rides along in every
// prompt, counted in characters, not bytes. Anything past it is cut rather
// than summarized.
const MaxSourceTextLength = 12000

const truncationNotice = "\n\n[Document truncated for context]"

// Truncate caps text at MaxSourceTextLength characters and appends a marker
// so the model knows the document was cut. The cut always lands on a rune
// boundary so stored text stays valid UTF-8.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxSourceTextLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxSourceTextLength]) + truncationNotice
}
