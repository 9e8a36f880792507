package blogservice

import "regexp"

var (
	scriptBlockRE = regexp.MustCompile(`(?is)<\s*script\b[^>]*>.*?<\s*/\s*script\s*>`)
	// a script tag left unclosed would swallow the rest of the document in a
	// browser, so it gets cut down to nothing as well
	scriptOpenRE = regexp.MustCompile(`(?is)<\s*script\b[^>]*>.*`)
)

// sanitizeMarkdown strips script elements from entry content before it is
// stored. Markdown itself passes through untouched; rendering and escaping of
// the remaining HTML is the client's concern.
func sanitizeMarkdown(markdown string) string {
	out := scriptBlockRE.ReplaceAllString(markdown, "")
	return scriptOpenRE.ReplaceAllString(out, "")
}
