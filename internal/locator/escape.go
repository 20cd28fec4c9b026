package locator

import (
	"regexp"
	"strings"
)

var (
	cssIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.:\-]*$`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// XPathLiteral wraps s as an XPath 1.0 string literal. XPath has no escape
// sequences, so values containing both quote kinds are split into concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	pieces := make([]string, 0, len(parts)*2)

	for i, p := range parts {
		if i > 0 {
			pieces = append(pieces, `"'"`)
		}

		if p != "" {
			pieces = append(pieces, "'"+p+"'")
		}
	}

	return "concat(" + strings.Join(pieces, ",") + ")"
}

// CSSEscape escapes a value for use inside a double-quoted CSS attribute
// selector.
func CSSEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)

	return strings.ReplaceAll(s, `"`, `\"`)
}

// IsCSSIdentifier reports whether id is legal in a bare #id selector
// without escaping.
func IsCSSIdentifier(id string) bool {
	return cssIdentRe.MatchString(id)
}

// NormalizeText collapses whitespace runs and trims, matching XPath's
// normalize-space().
func NormalizeText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return strings.TrimSpace(string(runes[:max]))
}
