package tags

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// voidElement matches unclosed void elements, which comments often write
// HTML-style.
var voidElement = regexp.MustCompile(`(?i)<(br|hr|img)(\s[^<>]*?)?\s*>`)

// namedEntity matches a named character reference such as &nbsp;.
var namedEntity = regexp.MustCompile(`&([A-Za-z][A-Za-z0-9]*);`)

// NormalizeMarkup closes HTML-style void elements and rewrites named HTML
// entities as numeric character references. Only the five XML entities keep
// their names; unknown names are left for validation to reject.
func NormalizeMarkup(s string) string {
	if strings.Contains(s, "&") {
		s = namedEntity.ReplaceAllStringFunc(s, numericEntity)
	}
	if !strings.Contains(s, "<") {
		return s
	}
	return voidElement.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasSuffix(m, "/>") {
			return m
		}
		return strings.TrimSuffix(m, ">") + "/>"
	})
}

func numericEntity(m string) string {
	name := m[1 : len(m)-1]
	switch name {
	case "amp", "lt", "gt", "quot", "apos":
		return m
	}
	text, ok := xml.HTMLEntity[name]
	if !ok {
		return m
	}
	var sb strings.Builder
	for _, r := range text {
		fmt.Fprintf(&sb, "&#%d;", r)
	}
	return sb.String()
}

// ValidateMarkup checks that s can be embedded as markup in the document
// tree: elements must balance and, after normalization, every entity must be
// one XML itself defines.
func ValidateMarkup(s string) error {
	if !strings.ContainsAny(s, "<&") {
		return nil
	}
	s = NormalizeMarkup(s)
	dec := xml.NewDecoder(strings.NewReader("<body>" + s + "</body>"))
	dec.Strict = true
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("invalid markup: %w", err)
		}
	}
}
