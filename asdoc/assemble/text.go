package assemble

import (
	"strings"
	"unicode"

	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

// markup returns text when it is well-formed markup. Otherwise it records
// a diagnostic against owner and returns "".
func (a *Assembler) markup(owner, what, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if err := tags.ValidateMarkup(text); err != nil {
		a.diags.Errorf(diag.KindMarkup, owner, "%s is not well-formed: %v", what, err)
		return ""
	}
	return tags.NormalizeMarkup(text)
}

// markupElem returns a markup node for text, or nil when text is empty or
// invalid.
func (a *Assembler) markupElem(tag, owner, what, text string) *doctree.Node {
	if m := a.markup(owner, what, text); m != "" {
		return doctree.MarkupElem(tag, m)
	}
	return nil
}

// shortDesc returns the first sentence of a validated description. When
// cutting would break the markup the whole description is used.
func shortDesc(desc string) string {
	end := sentenceEnd(desc)
	if end < 0 || end == len(desc) {
		return desc
	}
	first := strings.TrimSpace(desc[:end])
	if tags.ValidateMarkup(first) != nil {
		return desc
	}
	return first
}

func sentenceEnd(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}
		if i+1 == len(s) {
			return len(s)
		}
		if unicode.IsSpace(rune(s[i+1])) {
			return i + 1
		}
	}
	return -1
}

// firstWord splits s at its first run of whitespace.
func firstWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// paramDescriptions maps @param bodies to parameter names. A body whose
// first word names a parameter documents that parameter; the remaining
// bodies are assigned by position.
func paramDescriptions(names []string, bodies []string) []string {
	out := make([]string, len(names))
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	var positional []string
	for _, b := range bodies {
		word, rest := firstWord(b)
		if i, ok := index[word]; ok && out[i] == "" {
			out[i] = rest
			continue
		}
		positional = append(positional, b)
	}
	for i := range out {
		if out[i] == "" && len(positional) > 0 {
			out[i], positional = positional[0], positional[1:]
		}
	}
	return out
}

// splitVersion splits "Flash 9.0" into its platform name and version.
func splitVersion(s string) (name, version string) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
}
