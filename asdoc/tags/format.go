package tags

import (
	"strings"
)

// Format renders a tag set back into the raw block form accepted by Parse.
// Bodies are wrapped in CDATA so that Parse(Format(s)) reproduces s.
func Format(s *TagSet) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	if s.Description != "" {
		writeBlock(&sb, Description, s.Description)
	}

	for _, name := range s.order {
		v := s.values[name]
		switch v.Shape {
		case ShapeSingle:
			writeBlock(&sb, name, v.Text)
		case ShapeList:
			for _, item := range v.Items {
				writeBlock(&sb, name, item)
			}
		case ShapeFlag:
			if v.Present {
				sb.WriteString("<" + name + "/>")
			}
		}
	}

	for _, c := range s.Custom {
		for _, text := range c.Values {
			writeBlock(&sb, c.Name, text)
		}
	}

	return sb.String()
}

func writeBlock(sb *strings.Builder, name, body string) {
	sb.WriteString("<")
	sb.WriteString(name)
	sb.WriteString(">")
	if body != "" {
		sb.WriteString(cdataOpen)
		sb.WriteString(strings.ReplaceAll(body, cdataClose, "]]"+cdataClose+cdataOpen+">"))
		sb.WriteString(cdataClose)
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteString(">")
}
