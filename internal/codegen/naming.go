package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"loc8r/internal/entity"
)

var invalidIdentRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// FieldBase derives the camelCase base name for a page-object field from
// the most stable identity the element carries: id, name, data-test, tag.
func FieldBase(e entity.ScanEntry) string {
	attrs := attributesOf(e)

	source := e.ID
	if source == "" {
		source = attrs["id"]
	}
	if source == "" {
		source = attrs["name"]
	}
	if source == "" {
		source = attrs["data-test"]
	}
	if source == "" {
		source = e.Tag
	}
	if source == "" {
		source = "element"
	}

	parts := strings.Fields(invalidIdentRe.ReplaceAllString(source, " "))
	if len(parts) == 0 {
		return "element"
	}

	name := strings.ToLower(parts[0])
	for _, p := range parts[1:] {
		name += capitalize(p)
	}

	return name
}

// DedupeNames suffixes repeated bases with an incrementing counter so the
// generated fields stay unique and deterministic.
func DedupeNames(bases []string) []string {
	seen := make(map[string]int, len(bases))
	out := make([]string, 0, len(bases))

	for _, b := range bases {
		if n, ok := seen[b]; ok {
			seen[b] = n + 1
			out = append(out, fmt.Sprintf("%s%d", b, n))

			continue
		}

		seen[b] = 1
		out = append(out, b)
	}

	return out
}

// ClassName normalizes a provided page name to PascalCase with a Page
// suffix.
func ClassName(provided string) string {
	parts := strings.Fields(invalidIdentRe.ReplaceAllString(provided, " "))

	var name string
	for _, p := range parts {
		name += capitalize(p)
	}

	if name == "" {
		name = "Page"
	}

	if !strings.HasSuffix(name, "Page") {
		name += "Page"
	}

	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
